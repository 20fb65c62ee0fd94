// Package oracle holds the journaling question bank and the static facts and
// tips shown alongside activities.
package oracle

// Prompt is one leveled, sequenced journaling question.
type Prompt struct {
	Type  string `json:"type"`
	ID    int    `json:"id"`
	Level int    `json:"level"`
	Seq   int    `json:"seq"`
	Text  string `json:"text"`
}

// Answer is a free-text response to a prompt. Answers are append-only.
// PromptID may reference a prompt that does not exist.
type Answer struct {
	ID       string `json:"id"`
	Type     string `json:"type"`
	PromptID int    `json:"prompt_id"`
	Tab      string `json:"tab"`
	Activity string `json:"activity"`
	Level    int    `json:"level"`
	Answer   string `json:"answer"`
	Date     int64  `json:"date"`
}

// Fact is a short piece of reference text picked at random.
type Fact struct {
	Type string `json:"type"`
	ID   int    `json:"id"`
	Text string `json:"text"`
}

// Tip is leveled, sequenced reference text.
type Tip struct {
	Type  string `json:"type"`
	Level int    `json:"level"`
	Seq   int    `json:"seq"`
	Text  string `json:"text"`
}

// Less orders prompts by (Level, Seq, ID).
func (p Prompt) Less(o Prompt) bool {
	if p.Level != o.Level {
		return p.Level < o.Level
	}
	if p.Seq != o.Seq {
		return p.Seq < o.Seq
	}
	return p.ID < o.ID
}
