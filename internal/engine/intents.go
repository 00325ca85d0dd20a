package engine

import "strings"

type Intent string

const (
	IntentGreeting Intent = "greeting"
	IntentFarewell Intent = "farewell"
	IntentThanks   Intent = "thanks"
	IntentFocusOn  Intent = "focus_on"
	IntentFocusOff Intent = "focus_off"
	IntentHelp     Intent = "help"
)

type intentDef struct {
	Tag      Intent
	Patterns []string
}

// intentTable is scanned top to bottom; the first intent whose pattern set
// matches a substring wins. Priority is declaration order, never scoring.
var intentTable = []intentDef{
	{IntentFocusOn, []string{"focus mode on", "start focus", "focus on"}},
	{IntentFocusOff, []string{"focus mode off", "stop focus", "take a break"}},
	{IntentGreeting, []string{"hello", "hi there", "hey", "good morning", "good evening"}},
	{IntentFarewell, []string{"goodbye", "bye", "see you", "good night"}},
	{IntentThanks, []string{"thank you", "thanks", "thx"}},
}

// ClassifyIntent matches text against the priority-ordered intent table.
func ClassifyIntent(text string) (Intent, bool) {
	lowered := strings.ToLower(text)
	for _, def := range intentTable {
		for _, p := range def.Patterns {
			if strings.Contains(lowered, p) {
				return def.Tag, true
			}
		}
	}
	return "", false
}

type TaskKind string

const (
	TaskKindVideo   TaskKind = "video"
	TaskKindQuiz    TaskKind = "quiz"
	TaskKindArticle TaskKind = "article"
)

type TaskDef struct {
	ID       string
	Title    string
	Kind     TaskKind
	Keywords []string
}

// taskCatalog mirrors the fixed learning-task set served by the dashboard.
// Detection scans keywords in declaration order; the first hit wins.
var taskCatalog = []TaskDef{
	{ID: "ai_intro", Title: "Watch AI Intro", Kind: TaskKindVideo, Keywords: []string{"ai intro", "watched the ai", "intro video"}},
	{ID: "python_basics", Title: "Complete Python Basics", Kind: TaskKindQuiz, Keywords: []string{"python basics", "python quiz", "finished python"}},
	{ID: "data_science", Title: "Read Data Science Overview", Kind: TaskKindArticle, Keywords: []string{"data science", "read the overview"}},
}

// TaskCatalog returns the fixed task list in declaration order.
func TaskCatalog() []TaskDef {
	out := make([]TaskDef, len(taskCatalog))
	copy(out, taskCatalog)
	return out
}

// DetectTask scans the catalog for a keyword contained in text.
func DetectTask(text string) *TaskDef {
	lowered := strings.ToLower(text)
	for i := range taskCatalog {
		for _, kw := range taskCatalog[i].Keywords {
			if strings.Contains(lowered, kw) {
				t := taskCatalog[i]
				return &t
			}
		}
	}
	return nil
}
