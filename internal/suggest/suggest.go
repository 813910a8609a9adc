// Package suggest is the local chat assistant: ordered keyword rules
// mapping a message to a canned reply and a task breakdown.
package suggest

import (
	"context"
	"strings"
	"time"

	"github.com/dori/weektodo/internal/calendar"
	"github.com/dori/weektodo/internal/model"
)

// Greeting opens an empty chat transcript
const Greeting = "Welcome to your AI productivity assistant! 🚀 I'm here to help you break down complex tasks, organize your workflow, and boost your productivity. What would you like to accomplish today?"

// ErrorReply is shown when the remote assistant fails
const ErrorReply = "Sorry, I encountered an error. Please try again."

// Suggestion is a reply plus the task titles it proposes
type Suggestion struct {
	Message string
	Tasks   []string
}

type rule struct {
	match func(string) bool
	reply Suggestion
}

func has(s string, words ...string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

// rules are evaluated in order, first match wins
var rules = []rule{
	{
		match: func(s string) bool { return has(s, "plan") && has(s, "project", "work") },
		reply: Suggestion{
			Message: "🎯 Excellent! Let me help you create a comprehensive project plan. Here are the essential tasks I've structured for you:",
			Tasks: []string{
				"Define project scope and objectives",
				"Research and gather requirements",
				"Create detailed project timeline",
				"Identify key stakeholders and team members",
				"Set up project tracking and communication tools",
				"Plan risk management strategies",
				"Schedule regular progress reviews",
			},
		},
	},
	{
		match: func(s string) bool { return has(s, "organize") && has(s, "day") },
		reply: Suggestion{
			Message: "📅 Perfect! Let me help you organize your day for maximum productivity:",
			Tasks: []string{
				"Review and prioritize today's tasks",
				"Block time for deep work sessions",
				"Schedule important meetings and calls",
				"Plan breaks and lunch time",
				"Set aside time for email and communication",
				"Prepare for tomorrow's priorities",
			},
		},
	},
	{
		match: func(s string) bool { return has(s, "break down") && has(s, "goal") },
		reply: Suggestion{
			Message: "🎯 Great approach! Breaking down big goals makes them much more achievable. Here's your action plan:",
			Tasks: []string{
				"Define your specific end goal clearly",
				"Identify major milestones along the way",
				"Break each milestone into smaller tasks",
				"Set realistic deadlines for each step",
				"Create accountability measures",
				"Plan regular progress check-ins",
			},
		},
	},
	{
		match: func(s string) bool { return has(s, "plan") && has(s, "trip") },
		reply: Suggestion{
			Message: "🌟 I'll help you plan an amazing trip! Here are the essential tasks I've broken down for you:",
			Tasks: []string{
				"Research destination and attractions",
				"Book flights and accommodation",
				"Create daily itinerary",
				"Pack essentials and documents",
				"Arrange transportation at destination",
				"Plan budget and expenses",
			},
		},
	},
	{
		match: func(s string) bool { return has(s, "learn", "study") },
		reply: Suggestion{
			Message: "📚 Here's a structured approach to your learning goal:",
			Tasks: []string{
				"Research learning resources and materials",
				"Create study schedule and milestones",
				"Set up learning environment",
				"Practice daily exercises and reviews",
				"Track progress and adjust plan",
				"Find study groups or mentors",
			},
		},
	},
	{
		match: func(s string) bool { return has(s, "workout", "fitness", "exercise") },
		reply: Suggestion{
			Message: "💪 Let's create a comprehensive fitness plan for you:",
			Tasks: []string{
				"Set specific fitness goals and targets",
				"Choose workout routine and exercises",
				"Schedule exercise sessions in calendar",
				"Plan healthy meal prep and nutrition",
				"Track progress and measurements",
				"Find workout buddy or trainer",
			},
		},
	},
}

var fallback = Suggestion{
	Message: "I'd love to help you accomplish your goals! Could you provide more details about what you're working on? I can help break it down into specific, actionable tasks that you can tackle step by step. 🚀",
}

// Reply answers a chat message
func Reply(input string) Suggestion {
	s := strings.ToLower(input)
	for _, r := range rules {
		if r.match(s) {
			return Suggestion{Message: r.reply.Message, Tasks: append([]string(nil), r.reply.Tasks...)}
		}
	}
	return fallback
}

// Prompt is a canned conversation starter
type Prompt struct {
	Label string
	Text  string
}

// QuickPrompts are offered on an empty transcript
var QuickPrompts = []Prompt{
	{Label: "Plan a project", Text: "Help me plan a new project with clear milestones and tasks"},
	{Label: "Organize my day", Text: "Help me organize my daily schedule and prioritize tasks"},
	{Label: "Break down a goal", Text: "Help me break down a big goal into smaller actionable steps"},
}

// TaskFor builds the task a suggestion becomes: due today, green, medium
func TaskFor(title string, today time.Time) model.TaskFields {
	p := model.PriorityMedium
	return model.TaskFields{
		Title:    title,
		Date:     calendar.FormatDate(today),
		Color:    model.ColorGreen,
		Priority: &p,
	}
}

// AddFunc adds one suggested task
type AddFunc func(ctx context.Context, fields model.TaskFields) error

// Insert adds the suggested titles one at a time, waiting stagger between
// them. It stops at the first error or when ctx is done.
func Insert(ctx context.Context, titles []string, today time.Time, stagger time.Duration, add AddFunc) (int, error) {
	for i, title := range titles {
		if i > 0 && stagger > 0 {
			select {
			case <-ctx.Done():
				return i, ctx.Err()
			case <-time.After(stagger):
			}
		}
		if err := add(ctx, TaskFor(title, today)); err != nil {
			return i, err
		}
	}
	return len(titles), nil
}
