package notify

import (
	"bytes"
	"fmt"
	"html/template"
)

const layoutOpen = `<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">`
const layoutClose = `<p>Best regards,<br>The JobAssist Team</p></div>`

var templates = template.Must(template.New("emails").Parse(`
{{define "welcome"}}` + layoutOpen + `
<h2 style="color: #667eea;">Welcome to JobAssist, {{.Name}}!</h2>
<p>Thank you for joining JobAssist, your job application assistant.</p>
<ul>
<li>Upload your resume and have it parsed</li>
<li>Browse jobs from LinkedIn, Indeed, Naukri and Unstop</li>
<li>Get customized resumes for each job</li>
<li>Analyze skill gaps and get learning recommendations</li>
<li>Set up auto-apply</li>
</ul>
<p>Get started by uploading your resume!</p>
` + layoutClose + `{{end}}
{{define "confirmation"}}` + layoutOpen + `
<h2 style="color: #667eea;">Application Submitted Successfully!</h2>
<p>Hi {{.Name}},</p>
<p>Your application has been submitted for:</p>
<div style="background: #f7fafc; padding: 20px; border-radius: 8px; margin: 20px 0;">
<h3 style="margin: 0 0 10px 0;">{{.JobTitle}}</h3>
<p style="margin: 5px 0;"><strong>Company:</strong> {{.Company}}</p>
<p style="margin: 5px 0;"><strong>Match Score:</strong> {{.MatchScore}}%</p>
</div>
<p>We'll keep you updated on your application status.</p>
` + layoutClose + `{{end}}
{{define "jobAlert"}}` + layoutOpen + `
<h2 style="color: #667eea;">New Job Matches for You!</h2>
<p>Hi {{.Name}},</p>
<p>We found {{len .Jobs}} new jobs matching your preferences:</p>
{{range .Jobs}}<div style="background: #f7fafc; padding: 15px; border-radius: 8px; margin: 15px 0;">
<h4 style="margin: 0 0 10px 0;">{{.Title}}</h4>
<p style="margin: 5px 0;"><strong>Company:</strong> {{.Company}}</p>
<p style="margin: 5px 0;"><strong>Location:</strong> {{.Location}}</p>
<p style="margin: 5px 0;"><strong>Match Score:</strong> {{.MatchScore}}%</p>
<a href="{{.URL}}" style="color: #667eea;">View Job</a>
</div>{{end}}
` + layoutClose + `{{end}}
{{define "skills"}}` + layoutOpen + `
<h2 style="color: #667eea;">Your Learning Path</h2>
<p>Hi {{.Name}},</p>
<p>Based on your skill gap analysis, here are some skills to learn:</p>
{{range .Recs}}<div style="background: #f7fafc; padding: 15px; border-radius: 8px; margin: 15px 0;">
<h4 style="margin: 0 0 10px 0;">{{.Skill}}</h4>
<p style="margin: 5px 0;"><strong>Priority:</strong> {{.Priority}}</p>
<p style="margin: 5px 0;"><strong>Learning Time:</strong> {{.LearningTime}}</p>
<ul>{{range .Resources}}<li><a href="{{.}}" style="color: #667eea;">{{.}}</a></li>{{end}}</ul>
</div>{{end}}
<p>Start learning today to improve your job match scores!</p>
` + layoutClose + `{{end}}
`))

func render(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return buf.String(), nil
}
