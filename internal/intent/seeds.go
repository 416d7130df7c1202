package intent

// Example is one labelled training utterance.
type Example struct {
	Text  string
	Label Label
}

// DefaultSeeds returns the built-in training corpus. It covers every label,
// so training always has enough labels even with no stored phrases.
func DefaultSeeds() []Example {
	return []Example{
		{"add task", Tasks},
		{"list tasks", Tasks},
		{"complete task", Tasks},

		{"note", Notes},
		{"list notes", Notes},
		{"search notes", Notes},

		{"remind me", Reminders},
		{"list reminders", Reminders},
		{"cancel reminder", Reminders},

		{"add event", Events},
		{"list events", Events},
		{"delete event", Events},

		{"what time is it", Time},
		{"date", Time},
		{"timezone", Time},

		{"hello", Smalltalk},
		{"thanks", Smalltalk},
		{"bye", Smalltalk},

		{"about me", Profile},
		{"who am i", Profile},
		{"tell me about myself", Profile},

		{"my projects", Projects},
		{"what projects am i doing", Projects},
		{"show projects", Projects},

		{"help", Help},
		{"how to use", Help},
		{"commands", Help},
		{"what can you do", Help},
	}
}
