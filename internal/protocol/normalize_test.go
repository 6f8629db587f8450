package protocol

import "testing"

func TestNormalizeClassification(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want Kind
	}{
		{
			name: "initial state",
			raw:  `{"type":"initialState","exams":[{"clientId":"c1","userInfo":"Alice","timer":"00:30:00","questions":[]}]}`,
			want: KindInitialState,
		},
		{
			name: "initial state without exams",
			raw:  `{"type":"initialState"}`,
			want: KindInitialState,
		},
		{
			name: "client disconnected",
			raw:  `{"type":"clientDisconnected","clientId":"c1"}`,
			want: KindClientDisconnected,
		},
		{
			name: "client disconnected without clientId is unknown",
			raw:  `{"type":"clientDisconnected"}`,
			want: KindUnknown,
		},
		{
			name: "timer update",
			raw:  `{"type":"timerUpdate","clientId":"c1","timer":"00:05:00"}`,
			want: KindTimerUpdate,
		},
		{
			name: "timer update missing timer is unknown",
			raw:  `{"type":"timerUpdate","clientId":"c1"}`,
			want: KindUnknown,
		},
		{
			name: "processed answer",
			raw:  `{"type":"processedAnswer","clientId":"c1","qIndex":2,"answer":"B","answeredBy":"helper@example.com"}`,
			want: KindProcessedAnswer,
		},
		{
			name: "processed answer missing answer is unknown",
			raw:  `{"type":"processedAnswer","clientId":"c1","qIndex":2}`,
			want: KindUnknown,
		},
		{
			name: "live question with text",
			raw:  `{"clientId":"c1","userInfo":"Alice","qIndex":0,"question":"2+2?","answers":[{"text":"3"},{"text":"4"}]}`,
			want: KindLiveQuestion,
		},
		{
			name: "live question with image only",
			raw:  `{"clientId":"c1","userInfo":"Alice","qIndex":1,"questionImg":"/img/q1.png","answers":[]}`,
			want: KindLiveQuestion,
		},
		{
			name: "live question with timer",
			raw:  `{"clientId":"c1","userInfo":"Alice","qIndex":0,"question":"2+2?","answers":[],"timer":"00:30:00"}`,
			want: KindLiveQuestion,
		},
		{
			name: "live question missing both question and image is unknown",
			raw:  `{"clientId":"c1","userInfo":"Alice","qIndex":0,"answers":[]}`,
			want: KindUnknown,
		},
		{
			name: "live question missing answers is unknown",
			raw:  `{"clientId":"c1","userInfo":"Alice","qIndex":0,"question":"2+2?"}`,
			want: KindUnknown,
		},
		{
			name: "unrecognized type tag",
			raw:  `{"type":"serverStats","uptime":12345}`,
			want: KindUnknown,
		},
		{
			name: "empty object",
			raw:  `{}`,
			want: KindUnknown,
		},
		{
			name: "json array",
			raw:  `[1,2,3]`,
			want: KindUnknown,
		},
		{
			name: "bare string",
			raw:  `"ping"`,
			want: KindUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev, err := Normalize([]byte(tt.raw))
			if err != nil {
				t.Fatalf("Normalize(%s) unexpected error: %v", tt.raw, err)
			}
			if ev.Kind() != tt.want {
				t.Errorf("Normalize(%s) = %s, want %s", tt.raw, ev.Kind(), tt.want)
			}
		})
	}
}

func TestNormalizeMalformedFrame(t *testing.T) {
	for _, raw := range []string{``, `{`, `{"type":`, `not json at all`} {
		if _, err := Normalize([]byte(raw)); err == nil {
			t.Errorf("Normalize(%q) expected error", raw)
		}
	}
}

func TestNormalizeFieldExtraction(t *testing.T) {
	raw := `{"type":"processedAnswer","clientId":"c9","qIndex":4,"question":"fallback label","answer":"C","answeredBy":"h1"}`
	ev, err := Normalize([]byte(raw))
	if err != nil {
		t.Fatal(err)
	}
	pa, ok := ev.(ProcessedAnswer)
	if !ok {
		t.Fatalf("expected ProcessedAnswer, got %T", ev)
	}
	if pa.ClientID != "c9" || pa.QIndex != 4 || pa.Answer != "C" || pa.AnsweredBy != "h1" || pa.Question != "fallback label" {
		t.Errorf("unexpected fields: %+v", pa)
	}
}

func TestQuestionSnapshotToModelCarriesEchoes(t *testing.T) {
	snap := QuestionSnapshot{
		QIndex:   1,
		Question: "capital of France?",
		Answers:  []AnswerOption{{Text: "Paris"}, {Text: "Lyon"}},
		AnswersList: []AnswerEcho{
			{Answer: "Paris", AnsweredBy: "h1"},
			{Answer: "Lyon", AnsweredBy: "h2"},
			{Answer: "Paris", AnsweredBy: "h1"}, // duplicate responder collapses
		},
	}

	q := snap.ToModel()
	if len(q.Answers) != 2 {
		t.Errorf("answers = %d, want 2", len(q.Answers))
	}
	if len(q.AnswersList) != 2 {
		t.Errorf("answersList = %d, want 2 (duplicate responder must collapse)", len(q.AnswersList))
	}
}
