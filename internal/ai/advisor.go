package ai

import (
	"context"
	"fmt"
	"strings"

	"unitask-api/internal/models"
)

// DifficultyEstimate is the validated shape of a difficulty reply.
type DifficultyEstimate struct {
	Difficulty     string  `json:"difficulty"`
	Emoji          string  `json:"emoji"`
	EstimatedHours float64 `json:"estimatedHours"`
}

// EstimateDifficulty asks the model to rate a task Easy/Medium/Hard.
func (c *Client) EstimateDifficulty(ctx context.Context, title, description string) (*DifficultyEstimate, error) {
	if description == "" {
		description = "No description provided"
	}
	prompt := fmt.Sprintf(`Analyze the following task and estimate its difficulty level (Easy, Medium, Hard) and suggest an appropriate emoji.
Return ONLY a JSON object in this format: { "difficulty": "Level", "emoji": "Emoji", "estimatedHours": Number }.

Task Title: %s
Task Description: %s`, title, description)

	text, err := c.generate(ctx, prompt)
	if err != nil {
		return nil, err
	}

	var est DifficultyEstimate
	if err := decodeReply(text, &est); err != nil {
		return nil, err
	}
	switch est.Difficulty {
	case "Easy", "Medium", "Hard":
	default:
		return nil, ErrMalformedResponse
	}
	return &est, nil
}

// PlannedTask is one task in a generated project plan.
type PlannedTask struct {
	Title         string `json:"title"`
	Description   string `json:"description"`
	Type          string `json:"type"`
	EstimatedDays int    `json:"estimatedDays"`
}

// AnalyzeProject turns a project brief into a proposed task breakdown.
func (c *Client) AnalyzeProject(ctx context.Context, brief string) ([]PlannedTask, error) {
	prompt := fmt.Sprintf(`You are a project planner for a university group project.
Break the following project brief into 5-10 concrete tasks a small student team can divide up.
Return ONLY a JSON array in this format:
[{ "title": "...", "description": "...", "type": "Story" | "Task" | "Bug", "estimatedDays": Number }]

PROJECT BRIEF:
%s`, brief)

	text, err := c.generate(ctx, prompt)
	if err != nil {
		return nil, err
	}

	var plan []PlannedTask
	if err := decodeReply(text, &plan); err != nil {
		return nil, err
	}
	if len(plan) == 0 {
		return nil, ErrMalformedResponse
	}
	for _, t := range plan {
		if t.Title == "" {
			return nil, ErrMalformedResponse
		}
	}
	return plan, nil
}

// memberProfile is the member data embedded in the assignment prompt.
type memberProfile struct {
	ID     string
	Name   string
	Skills []string
}

// SuggestAssignments asks the model to map task titles to member ids based
// on skills. Returns taskTitle -> memberID.
func (c *Client) SuggestAssignments(ctx context.Context, tasks []PlannedTask, members []models.User) (map[string]string, error) {
	var sb strings.Builder
	sb.WriteString("TEAM MEMBERS:\n")
	for _, m := range members {
		sb.WriteString(fmt.Sprintf("- id=%s name=%s skills=%s\n", m.ID, m.Name, strings.Join(m.Skills, ", ")))
	}
	sb.WriteString("TASKS:\n")
	for _, t := range tasks {
		sb.WriteString(fmt.Sprintf("- %s: %s\n", t.Title, t.Description))
	}

	prompt := fmt.Sprintf(`Assign each task to the team member whose skills fit it best, spreading the workload evenly.
Return ONLY a JSON object mapping task title to member id, e.g. { "Task title": "member-id" }.

%s`, sb.String())

	text, err := c.generate(ctx, prompt)
	if err != nil {
		return nil, err
	}

	var assignments map[string]string
	if err := decodeReply(text, &assignments); err != nil {
		return nil, err
	}

	valid := make(map[string]struct{}, len(members))
	for _, m := range members {
		valid[m.ID] = struct{}{}
	}
	for _, id := range assignments {
		if _, ok := valid[id]; !ok {
			return nil, ErrMalformedResponse
		}
	}
	return assignments, nil
}

// RoundRobinAssign is the deterministic fallback when the AI assignment call
// or its response parsing fails: tasks are dealt to members in order.
func RoundRobinAssign(tasks []PlannedTask, memberIDs []string) map[string]string {
	assignments := make(map[string]string, len(tasks))
	if len(memberIDs) == 0 {
		return assignments
	}
	for i, t := range tasks {
		assignments[t.Title] = memberIDs[i%len(memberIDs)]
	}
	return assignments
}

// Verification is the validated shape of a QA verification reply.
type Verification struct {
	Verdict     string `json:"verdict"`
	Feedback    string `json:"feedback"`
	Suggestions string `json:"suggestions"`
}

// VerifySubmission asks the model to judge a submission note against the
// task's requirements.
func (c *Client) VerifySubmission(ctx context.Context, task *models.Task, submissionNote string) (*Verification, error) {
	description := task.Description
	if description == "" {
		description = "No description provided"
	}
	if submissionNote == "" {
		submissionNote = "No note provided"
	}

	prompt := fmt.Sprintf(`You are a meticulous Quality Assurance (QA) Engineer.
Verify if the following task has been completed correctly based on its requirements and the user's submission note.

TASK REQUIREMENTS:
Title: %s
Description: %s

USER SUBMISSION NOTE:
%s

VERDICT CRITERIA:
- If the submission note clearly addresses the main requirements, return "PASS".
- If there are missing parts or the note is vague, return "FAIL".

Return ONLY a JSON object in this format:
{
    "verdict": "PASS" | "FAIL",
    "feedback": "Detailed feedback itemized by requirements",
    "suggestions": "What to do next if failed"
}`, task.Title, description, submissionNote)

	text, err := c.generate(ctx, prompt)
	if err != nil {
		return nil, err
	}

	var v Verification
	if err := decodeReply(text, &v); err != nil {
		return nil, err
	}
	if v.Verdict != "PASS" && v.Verdict != "FAIL" {
		return nil, ErrMalformedResponse
	}
	return &v, nil
}
