package prompts

const promptTemplate = `You are matching a governance proposal from {{.Source}} to its canonical forum proposal from the {{.Forum}}.

## {{.Source}} Entry to Match:
- **ID**: {{.ID}}
- **Title**: {{.Title}}
- **Author**: {{.Author}}
- **Description excerpt**:
{{.Description}}

---

## Candidate Forum Proposals ({{.CandidateCount}} total):

{{.Candidates}}

---

## Task:
1. Analyze the {{.Source}} entry and find which forum proposal it corresponds to
2. Consider: title similarity, author match, semantic meaning, description content, and any AIP/proposal numbers
3. Return your answer as JSON only (no markdown, no explanation outside the JSON):

{"proposal_id": "the-matching-uuid-or-null", "confidence": "high|medium|low|none", "reasoning": "Brief explanation of why this matches or why no match exists"}

**Important notes:**
- Some entries may not have a corresponding forum proposal (e.g., STIP/LTIPP protocol grants, elections, technical actions, test entries)
- If no match exists, return proposal_id: null
- "high" = very certain, "medium" = likely but not 100% sure, "low" = possible but uncertain, "none" = no match found
- Pay attention to specific identifiers like "AIP 6" or "ArbOS 20" - these should match exactly`

type promptData struct {
	Source         string
	Forum          string
	ID             string
	Title          string
	Author         string
	Description    string
	CandidateCount int
	Candidates     string
}
