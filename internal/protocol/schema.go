package protocol

// ─── Outbound (Helper → Server) ─────────────────────────────────────

// RoleAnnouncement is sent once, immediately after the socket opens. It
// registers this connection as a viewer/helper rather than an exam taker.
type RoleAnnouncement struct {
	Role string `json:"role"`
}

// RoleExam is the fixed role identity announced by the assistant.
const RoleExam = "exam"

// AnswerSubmission carries one helper-selected answer to the server.
// Fire-and-forget: the server echoes it back as a processedAnswer event.
type AnswerSubmission struct {
	QIndex     int    `json:"qIndex"`
	Question   string `json:"question"`
	Answer     string `json:"answer"`
	VarIndex   int    `json:"varIndex"`
	ClientID   string `json:"clientId"`
	AnsweredBy string `json:"answeredBy"`
}

// ─── Inbound (Server → Helper) ──────────────────────────────────────

// Kind identifies one of the closed set of inbound event shapes.
type Kind string

const (
	KindInitialState       Kind = "initialState"
	KindClientDisconnected Kind = "clientDisconnected"
	KindTimerUpdate        Kind = "timerUpdate"
	KindProcessedAnswer    Kind = "processedAnswer"
	// KindLiveQuestion is the untagged steady-state push; frames without a
	// recognized type field that carry a full question shape classify here.
	KindLiveQuestion Kind = "liveQuestion"
	// KindUnknown covers every frame matching none of the above. Unknown
	// frames are tolerated and produce no state change.
	KindUnknown Kind = "unknown"
)

// envelope is used to peek at the type tag before full parsing.
type envelope struct {
	Type string `json:"type"`
}

// Event is one normalized inbound event. The concrete type is one of
// InitialState, ClientDisconnected, TimerUpdate, ProcessedAnswer,
// LiveQuestion or Unknown.
type Event interface {
	Kind() Kind
}

// AnswerOption is an answer option as carried on the wire.
type AnswerOption struct {
	Text string `json:"text,omitempty"`
	Img  string `json:"img,omitempty"`
}

// AnswerEcho is one responder's submitted answer as carried on the wire.
type AnswerEcho struct {
	Answer     string `json:"answer"`
	AnsweredBy string `json:"answeredBy"`
}

// QuestionSnapshot is one question inside an initialState exam snapshot.
type QuestionSnapshot struct {
	QIndex      int            `json:"qIndex"`
	Question    string         `json:"question"`
	QuestionImg string         `json:"questionImg"`
	Answers     []AnswerOption `json:"answers"`
	AnswersList []AnswerEcho   `json:"answersList"`
}

// ExamSnapshot is one complete session snapshot inside initialState.
type ExamSnapshot struct {
	ClientID  string             `json:"clientId"`
	UserInfo  string             `json:"userInfo"`
	Timer     string             `json:"timer"`
	Questions []QuestionSnapshot `json:"questions"`
}

// InitialState replays every session currently live on the server. Emitted
// once after each (re)connect.
type InitialState struct {
	Exams []ExamSnapshot `json:"exams"`
}

func (InitialState) Kind() Kind { return KindInitialState }

// ClientDisconnected signals that a client left; its session must be wiped.
type ClientDisconnected struct {
	ClientID string `json:"clientId"`
}

func (ClientDisconnected) Kind() Kind { return KindClientDisconnected }

// TimerUpdate carries an authoritative remaining-time value.
type TimerUpdate struct {
	ClientID string `json:"clientId"`
	Timer    string `json:"timer"`
}

func (TimerUpdate) Kind() Kind { return KindTimerUpdate }

// ProcessedAnswer echoes a helper's submitted answer back to all helpers.
// Question is an optional fallback label for when the question itself was
// never seen.
type ProcessedAnswer struct {
	ClientID   string `json:"clientId"`
	QIndex     int    `json:"qIndex"`
	Question   string `json:"question"`
	Answer     string `json:"answer"`
	AnsweredBy string `json:"answeredBy"`
}

func (ProcessedAnswer) Kind() Kind { return KindProcessedAnswer }

// LiveQuestion is the steady-state single-question push. It carries no type
// tag on the wire. Timer is optional; when present it is a second path by
// which the session timer is seeded.
type LiveQuestion struct {
	ClientID    string         `json:"clientId"`
	UserInfo    string         `json:"userInfo"`
	QIndex      int            `json:"qIndex"`
	Question    string         `json:"question"`
	QuestionImg string         `json:"questionImg"`
	Answers     []AnswerOption `json:"answers"`
	Timer       string         `json:"timer"`
}

func (LiveQuestion) Kind() Kind { return KindLiveQuestion }

// Unknown is any frame matching none of the recognized shapes.
type Unknown struct{}

func (Unknown) Kind() Kind { return KindUnknown }
