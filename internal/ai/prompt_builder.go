package ai

import (
	"encoding/json"
	"strings"

	"smartpath-backend/internal/smart"
)

// buildQuestionPrompt embeds the full prediction and instructs the model to
// generate one follow-up question per empty criterion. Question types are
// fixed by criterion: time-bound questions are dates, achievable questions
// are yes-no, everything else is open-ended.
func buildQuestionPrompt(p smart.Prediction) string {
	var b strings.Builder

	b.WriteString("Generate Questions for Missing SMART Criteria\n\n")

	b.WriteString("INPUT:\n")
	b.WriteString(mustJSON(p))
	b.WriteString("\n\n")

	b.WriteString(`TASK:
1. Examine the prediction object's arrays
2. For each empty array, generate an appropriate follow-up question:
   - Questions should help complete missing SMART criteria
   - Questions must directly relate to the original_text
   - Questions must be brief, precise, unambiguous, and impactful on the original_text

QUESTION TYPES:
- time-bound: Use "date" type for deadline/timeline questions
- achievable: Use "yes-no" for feasibility checks
- All others: Use "open-ended" for detailed responses

OUTPUT FORMAT:
{
    "[criteria_name]": {
      "question": "Your follow-up question here",
      "type": "date|yes-no|open-ended"
    }
}

RULES:
- Only generate questions for empty arrays
- Each question must help validate one specific SMART criterion
- Questions should be contextual to the original goal
- Avoid generic questions - reference specific details from original_text
- Use "date" type only for time-bound questions

Example Input:
{
  "original_text": "to prevent health issues I need to lose 10 pounds",
  "prediction": {
    "specific": ["..."],
    "measurable": ["..."],
    "achievable": [],
    "relevant": ["..."],
    "time-bound": []
  }
}

Example Output:
{
    "achievable": {
      "question": "Is losing 10 pounds in one week a safe and realistic goal for you?",
      "type": "yes-no"
    },
    "time-bound": {
      "question": "What is your exact target date for losing the 10 pounds?",
      "type": "date"
    }
}

Note: Return only valid JSON without comments or explanations.`)

	return b.String()
}

// buildTaskPrompt embeds the completed prediction plus the date window and
// instructs the model to emit 7-14 tasks with recurrence rules.
func buildTaskPrompt(p smart.Prediction, startDate, dueDate string) string {
	var b strings.Builder

	b.WriteString("Generate Tasks for SMART Goal\n\n")

	b.WriteString("INPUT:\n")
	b.WriteString(mustJSON(map[string]interface{}{
		"original_text": p.OriginalText,
		"prediction":    p.Prediction,
		"start_date":    startDate,
		"due_date":      dueDate,
	}))
	b.WriteString("\n\n")

	b.WriteString(`TASK:
Generate a series of actionable tasks that will help achieve the SMART goal. Each task should:
1. Be specific and measurable
2. Have a clear deadline or recurring schedule
3. Contribute directly to achieving the main goal
4. Be realistic and achievable

OUTPUT FORMAT:
{
  "tasks": [
    {
      "title": "Clear, action-oriented task title",
      "description": "Brief description of what needs to be done",
      "task_date": "YYYY-MM-DD",
      "repeat_type": {
        "type": "none|daily|weekly|monthly",
        "days": ["MON", "TUE", "WED", "THU", "FRI", "SAT", "SUN"],
        "monthly_timing": "START|MID|END"
      }
    }
  ]
}

RULES:
1. Task Creation:
   - Create 7-14 distinct tasks that break down the goal
   - Each task must be actionable and measurable
   - Tasks should form a logical progression towards the goal

2. Timing Rules:
   - All task_dates must be between `)
	b.WriteString(startDate)
	b.WriteString(" and ")
	b.WriteString(dueDate)
	b.WriteString(`
   - Space tasks appropriately across the available time
   - For recurring tasks, set appropriate frequencies

3. Repeat Types:
   - "none": One-time task
   - "daily": Daily task with no specific days
   - "weekly": Select 1-3 specific days
   - "monthly": Choose START (1st-5th), MID (13th-17th), or END (25th-30th)

Example Output:
{
  "tasks": [
    {
      "title": "Track daily calorie intake",
      "description": "Log all meals and snacks in fitness app, staying under 2000 calories",
      "task_date": "2024-03-15",
      "repeat_type": {
        "type": "daily"
      }
    },
    {
      "title": "30-minute cardio workout",
      "description": "Complete either jogging, cycling, or swimming",
      "task_date": "2024-03-15",
      "repeat_type": {
        "type": "weekly",
        "days": ["MON", "WED", "FRI"]
      }
    },
    {
      "title": "Monthly weight check and progress photo",
      "description": "Record weight and take progress photos for tracking",
      "task_date": "2024-03-15",
      "repeat_type": {
        "type": "monthly",
        "monthly_timing": "START"
      }
    }
  ]
}

Note: Return only valid JSON without comments or explanations.`)

	return b.String()
}

func mustJSON(v interface{}) string {
	b, _ := json.Marshal(v)
	return string(b)
}
