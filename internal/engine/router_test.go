package engine

import "testing"

func TestRouteCommands(t *testing.T) {
	cases := []struct {
		text string
		want Command
	}{
		{"/help", CommandHelp},
		{"/xp", CommandXP},
		{"/XP", CommandXP},
		{"  /level  ", CommandLevel},
		{"/streak today", CommandStreak},
		{"/stats", CommandStats},
		{"/leaderboard", CommandLeaderboard},
		{"/achievements", CommandAchievements},
		{"/reset", CommandReset},
		{"/quote", CommandQuote},
	}
	for _, tc := range cases {
		r := Route(tc.text)
		if r.Kind != RouteCommand {
			t.Fatalf("Route(%q).Kind = %v, want RouteCommand", tc.text, r.Kind)
		}
		if r.Command != tc.want {
			t.Fatalf("Route(%q).Command = %q, want %q", tc.text, r.Command, tc.want)
		}
	}
}

func TestRouteUnknownCommandFallsThrough(t *testing.T) {
	r := Route("/bogus")
	if r.Kind != RouteUnhandled {
		t.Fatalf("Route(/bogus).Kind = %v, want RouteUnhandled", r.Kind)
	}

	// An unknown command whose body mentions a task still routes as a task.
	r = Route("/done with python basics")
	if r.Kind != RouteTask || r.Task.ID != "python_basics" {
		t.Fatalf("unknown command body should still detect tasks, got %+v", r)
	}
}

func TestRouteTasksBeforeIntents(t *testing.T) {
	r := Route("hello, I just finished the python basics quiz")
	if r.Kind != RouteTask {
		t.Fatalf("Kind = %v, want RouteTask before greeting intent", r.Kind)
	}
	if r.Task.ID != "python_basics" {
		t.Fatalf("Task.ID = %q, want python_basics", r.Task.ID)
	}
}

func TestRouteIntents(t *testing.T) {
	cases := []struct {
		text string
		want Intent
	}{
		{"hello there", IntentGreeting},
		{"good night, see you", IntentFarewell},
		{"thanks a lot", IntentThanks},
		{"please turn focus mode on", IntentFocusOn},
		{"focus mode off now", IntentFocusOff},
		{"what is a closure?", IntentHelp},
	}
	for _, tc := range cases {
		r := Route(tc.text)
		if r.Kind != RouteIntent {
			t.Fatalf("Route(%q).Kind = %v, want RouteIntent", tc.text, r.Kind)
		}
		if r.Intent != tc.want {
			t.Fatalf("Route(%q).Intent = %q, want %q", tc.text, r.Intent, tc.want)
		}
	}
}

func TestRouteFocusWinsOverGreeting(t *testing.T) {
	r := Route("hey, start focus please")
	if r.Intent != IntentFocusOn {
		t.Fatalf("Intent = %q, want focus_on to outrank greeting", r.Intent)
	}
}

func TestRouteUnhandled(t *testing.T) {
	for _, text := range []string{"the weather is nice today", "12345", "/"} {
		if r := Route(text); r.Kind != RouteUnhandled {
			t.Fatalf("Route(%q).Kind = %v, want RouteUnhandled", text, r.Kind)
		}
	}
}

func TestDetectTaskOrder(t *testing.T) {
	// Both catalogs' keywords present: declaration order decides.
	task := DetectTask("ai intro before the python basics")
	if task == nil || task.ID != "ai_intro" {
		t.Fatalf("DetectTask: got %+v, want ai_intro first", task)
	}
}
