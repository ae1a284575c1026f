package ai

const questionSystemPrompt = `You are a SMART goal refinement assistant. Generate contextual questions to fill gaps in SMART criteria, ensuring each question includes a ` + "`type`" + ` (open-ended, yes-no, date).`

const taskSystemPrompt = `You are a SMART goal task generation assistant. Break down SMART goals into actionable tasks with clear timelines and measurable outcomes.`
