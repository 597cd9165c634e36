package prompt

const defaultSummary = `Analyze this meeting transcript and write a structured summary in Markdown.

Meeting: {meeting_title}
Date: {meeting_date}
Duration: {meeting_duration}
Type: {meeting_type}
Participants: {participants}

{type_instructions}

Transcript:
---
{transcript_content}
---

Use these sections:

## Meeting Purpose
## Key Discussion Points
- **Topic**: specific details, options considered, technical context
## Action Items
- [ ] **@Person** - task - **Due:** timeline
## Decisions Made
## Open Questions & Risks
## Technical Notes

Be specific. Skip small talk.
`

const defaultChunk = `Analyze one section of a longer meeting. Work-related content only.

{chunk_info} of "{meeting_title}" ({meeting_date}), {meeting_type}
Participants: {participants}

{type_instructions}

Context from earlier in the meeting:
{previous_context}

The section repeats the end of the previous one:
---
{overlap_content}
---

Section transcript:
---
{transcript_content}
---

Extract from this section:
- Technical and business topics discussed
- Decisions made
- Action items with the person responsible
- Technical details (systems, APIs, architecture)
- Open questions or concerns
`

const defaultSynthesis = `Combine these section analyses into one meeting summary in Markdown.

Meeting: {meeting_title}
Date: {meeting_date}
Duration: {meeting_duration}
Type: {meeting_type}
Participants: {participants}

{type_instructions}

Section analyses:
{chunk_summaries}

Use these sections:

## Meeting Purpose
## Key Discussion Points
- **Topic**: specific details, options considered, technical context
## Action Items
- [ ] **@Person** - task - **Due:** timeline
## Decisions Made
## Open Questions & Risks
## Technical Notes

Merge duplicates across sections. Keep action items concrete.
`

const generalKind = "general_sync"

func defaultInstructions() map[string]string {
	return map[string]string{
		"technical": `This is a technical meeting. Focus on:
- Systems, APIs and technologies discussed
- Architecture decisions made
- Technical challenges, technical debt and performance concerns
- Implementation approaches and code review feedback
List blockers as infrastructure or dependency problems.`,

		"strategy": `This is a strategy meeting. Focus on:
- Goals, objectives and business decisions
- Resource allocation, timelines and milestones
- Business metrics, targets and product direction
Give action items owners, timelines and success metrics.`,

		"alignment": `This is an alignment meeting. Focus on:
- Dependencies between teams and coordination points
- Blockers and who owns them
- Handoffs and communication agreements
List cross-team blockers separately.`,

		"one_on_one": `This is a one-on-one. Focus on:
- Feedback given and received
- Career development and growth opportunities
- Personal goals and individual challenges
Keep action items about development and follow-up check-ins.`,

		"standup": `This is a standup. Focus on:
- Work completed and current focus per person
- Blockers needing help
- Next priorities and sprint progress
Keep it brief and per person.`,

		generalKind: `Focus on:
- Key updates shared
- Decisions that need follow-up
- Information that must reach other teams`,
	}
}
