package reply

import (
	"context"
	"math/rand"
	"strings"
	"sync"
)

// templates use {{name}} and {{snippet}} substitution slots.
var templates = []string{
	"Hey {{name}} — thanks for writing. Tell me more: what's one thing you learned today?",
	"Hi {{name}} — I liked that you said '{{snippet}}'. What made you think of that?",
	"Hello {{name}}. I'm here to listen. What are you curious about right now?",
	"That sounds interesting, {{name}}. Want to dig deeper or keep it light?",
}

// TemplateGenerator fills a reply template with fields from the context.
// It never errors, which makes it a valid backup for Fallback.
type TemplateGenerator struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

func NewTemplateGenerator() *TemplateGenerator {
	return &TemplateGenerator{rnd: rand.New(rand.NewSource(1))}
}

// NewTemplateGeneratorSeeded fixes the template order for tests.
func NewTemplateGeneratorSeeded(seed int64) *TemplateGenerator {
	return &TemplateGenerator{rnd: rand.New(rand.NewSource(seed))}
}

func (g *TemplateGenerator) Generate(_ context.Context, _ string, rc Context) (string, error) {
	g.mu.Lock()
	t := templates[g.rnd.Intn(len(templates))]
	g.mu.Unlock()

	name := rc.DisplayName
	if name == "" {
		name = "Friend"
	}
	r := strings.NewReplacer("{{name}}", name, "{{snippet}}", rc.Snippet)
	return r.Replace(t), nil
}
