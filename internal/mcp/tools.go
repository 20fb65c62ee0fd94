package mcp

import "github.com/mark3labs/mcp-go/mcp"

const activityDesc = `Activity name, case-insensitive: "Meditation", "Journaling" or "Digital Detox".`

const typeDesc = `Content type, named after an activity: "Meditation", "Journaling" or "Digital Detox".`

var completeToolDef = mcp.NewTool("activity_complete",
	mcp.WithDescription("Record one finished session of an activity. Increments the lifetime count, "+
		"marks today in this week's flags and, when the new count clears the element's threshold, "+
		"reveals the named garden element. An unknown or still-locked element is skipped silently."),
	mcp.WithString("activity", mcp.Required(), mcp.Description(activityDesc)),
	mcp.WithString("element", mcp.Description("Garden element to reveal, usually the result of garden_pick.")),
)

var activityListToolDef = mcp.NewTool("activity_list",
	mcp.WithDescription("List every activity with its lifetime count and this week's day flags."),
)

var activityGetToolDef = mcp.NewTool("activity_get",
	mcp.WithDescription("Get one activity's lifetime count and this week's day flags."),
	mcp.WithString("activity", mcp.Required(), mcp.Description(activityDesc)),
)

var gardenListToolDef = mcp.NewTool("garden_list",
	mcp.WithDescription("List garden elements with their unlock thresholds, visibility and placement."),
	mcp.WithString("activity", mcp.Description("Restrict to one activity. "+activityDesc)),
	mcp.WithBoolean("visible_only", mcp.Description("Only return revealed elements.")),
)

var gardenEligibleToolDef = mcp.NewTool("garden_eligible",
	mcp.WithDescription("List the element names offered for an activity at a completion count."),
	mcp.WithString("activity", mcp.Required(), mcp.Description(activityDesc)),
	mcp.WithNumber("count", mcp.Description("Completion count to evaluate (default: the stored count).")),
)

var gardenPickToolDef = mcp.NewTool("garden_pick",
	mcp.WithDescription("Pick one element uniformly at random from the eligible names, "+
		"or the activity's default element when none are eligible."),
	mcp.WithString("activity", mcp.Required(), mcp.Description(activityDesc)),
	mcp.WithNumber("count", mcp.Description("Completion count to evaluate (default: the stored count).")),
)

var journalPromptToolDef = mcp.NewTool("journal_prompt",
	mcp.WithDescription("Get the journaling prompt of a type at a level and sequence number."),
	mcp.WithString("type", mcp.Required(), mcp.Description(typeDesc)),
	mcp.WithNumber("level", mcp.Description("Prompt level (default: 1).")),
	mcp.WithNumber("seq", mcp.Description("Sequence within the level (default: 1).")),
)

var journalAnswerToolDef = mcp.NewTool("journal_answer",
	mcp.WithDescription("Append a journal answer. Answers are never overwritten."),
	mcp.WithString("type", mcp.Required(), mcp.Description(typeDesc)),
	mcp.WithString("answer", mcp.Required(), mcp.Description("Free-text answer.")),
	mcp.WithNumber("prompt_id", mcp.Description("Id of the prompt being answered.")),
	mcp.WithString("tab", mcp.Description("UI tab the answer was written in; summaries group by it.")),
	mcp.WithString("activity", mcp.Description("Activity the answer relates to.")),
	mcp.WithNumber("level", mcp.Description("Prompt level being answered.")),
)

var journalSummaryToolDef = mcp.NewTool("journal_summary",
	mcp.WithDescription("Join a type's answers with their prompts, grouped by tab and ordered by level and sequence. "+
		"Answers to missing prompts are counted as unmatched and left out."),
	mcp.WithString("type", mcp.Required(), mcp.Description(typeDesc)),
	mcp.WithNumber("since", mcp.Description("Unix seconds; only answers at or after this time (default: all).")),
)

var oracleFactToolDef = mcp.NewTool("oracle_fact",
	mcp.WithDescription("Return one random fact for a type."),
	mcp.WithString("type", mcp.Required(), mcp.Description(typeDesc)),
)

var oracleTipToolDef = mcp.NewTool("oracle_tip",
	mcp.WithDescription("Return the tip of a type at a level and sequence number."),
	mcp.WithString("type", mcp.Required(), mcp.Description(typeDesc)),
	mcp.WithNumber("level", mcp.Description("Tip level (default: 1).")),
	mcp.WithNumber("seq", mcp.Description("Sequence within the level (default: 1).")),
)
