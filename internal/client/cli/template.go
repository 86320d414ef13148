package cli

import (
	"fmt"
	"text/template"
	"time"

	"github.com/iudanet/taskkeeper/pkg/api"
)

const taskTemplate = `
=== Task Details ===

Title:   {{.Title}}
ID:      {{.ID}}
Status:  {{.Status}}
Created: {{fmtTime .CreatedAt}}
Updated: {{fmtTime .UpdatedAt}}
{{- if .Description }}

Description:
---
{{.Description}}
---
{{- end}}
`

var taskTmpl = template.Must(template.New("task").Funcs(template.FuncMap{
	"fmtTime": func(t time.Time) string { return t.Local().Format(time.RFC3339) },
}).Parse(taskTemplate))

func (c *Cli) printTask(task *api.TaskResponse) error {
	if err := taskTmpl.Execute(c.io, task); err != nil {
		return fmt.Errorf("failed to render task: %w", err)
	}
	c.io.Println()
	return nil
}
