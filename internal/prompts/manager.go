package prompts

import (
	"embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// embeds all .yaml files in the templates folder into the binary at compile
// time, so prompt content is fixed per build
//
//go:embed templates/*.yaml
var templateFS embed.FS

// Manager holds the interviewer prompt templates and the per-stage canned
// question pools used when the text generator is unavailable.
type Manager struct {
	base       string
	directives map[string]string
	questions  map[string][]string
	followups  map[string][]string
}

type interviewerTemplate struct {
	BasePrompt string            `yaml:"base_prompt"`
	Stages     map[string]string `yaml:"stages"`
}

type poolTemplate struct {
	Stages map[string][]string `yaml:"stages"`
}

// NewManager loads all embedded templates.
func NewManager() (*Manager, error) {
	m := &Manager{
		directives: make(map[string]string),
		questions:  make(map[string][]string),
		followups:  make(map[string][]string),
	}

	var interviewer interviewerTemplate
	if err := loadTemplate("interviewer.yaml", &interviewer); err != nil {
		return nil, err
	}
	m.base = interviewer.BasePrompt
	m.directives = interviewer.Stages

	var questions poolTemplate
	if err := loadTemplate("questions.yaml", &questions); err != nil {
		return nil, err
	}
	m.questions = questions.Stages

	var followups poolTemplate
	if err := loadTemplate("followups.yaml", &followups); err != nil {
		return nil, err
	}
	m.followups = followups.Stages

	return m, nil
}

func loadTemplate(name string, out interface{}) error {
	data, err := templateFS.ReadFile("templates/" + name)
	if err != nil {
		return fmt.Errorf("failed to read template file %s: %w", name, err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to parse template file %s: %w", name, err)
	}
	return nil
}

// StagePrompt returns the full system prompt template for a stage: the base
// conversation rules followed by the stage directive.
func (m *Manager) StagePrompt(stage string) (string, error) {
	directive, ok := m.directives[stage]
	if !ok {
		return "", fmt.Errorf("no directive for stage: %s", stage)
	}
	return m.base + "\n" + directive, nil
}

// StageQuestions returns the canned opening questions for a stage. The
// returned slice is shared; callers must not mutate it.
func (m *Manager) StageQuestions(stage string) []string {
	return m.questions[stage]
}

// FollowUpQuestions returns the canned clarifying questions for a stage.
func (m *Manager) FollowUpQuestions(stage string) []string {
	return m.followups[stage]
}

// Render substitutes {{.Key}} placeholders with the given values. Simple
// string replacement instead of template execution keeps output byte-stable.
func Render(template string, vars map[string]string) string {
	result := template
	for key, value := range vars {
		result = strings.ReplaceAll(result, "{{."+key+"}}", value)
	}
	return result
}
