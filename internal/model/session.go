package model

// DefaultClock is the timer value used when a session is created before any
// authoritative timer has been seen.
const DefaultClock = "00:00:00"

// UnknownUser labels a session synthesized from a processedAnswer event that
// arrived before any session data for its client.
const UnknownUser = "Unknown user"

// Session is the live state of one exam-taking client as seen by the helper.
// Keyed by ClientID, a server-assigned opaque string.
type Session struct {
	ClientID string `json:"client_id"`
	UserInfo string `json:"user_info"`
	// Timer is the remaining time in HH:MM:SS form. It only decreases,
	// except when overwritten by an authoritative server value.
	Timer string `json:"timer"`
	// Questions is ordered by arrival. Uniqueness by QIndex is enforced
	// through the index map below, never by scanning.
	Questions []*Question `json:"questions"`
	// Expanded is local UI state. Server events never touch it.
	Expanded bool `json:"expanded"`

	// byIndex maps qIndex to its position in Questions.
	byIndex map[int]int
}

// NewSession creates an empty session with default timer and collapsed view.
func NewSession(clientID, userInfo, timer string) *Session {
	if timer == "" {
		timer = DefaultClock
	}
	return &Session{
		ClientID: clientID,
		UserInfo: userInfo,
		Timer:    timer,
		byIndex:  make(map[int]int),
	}
}

// Question returns the question with the given qIndex, or nil.
func (s *Session) Question(qIndex int) *Question {
	pos, ok := s.byIndex[qIndex]
	if !ok {
		return nil
	}
	return s.Questions[pos]
}

// AddQuestion appends q if its qIndex is not already present.
// Returns false when the question was a duplicate and was dropped.
func (s *Session) AddQuestion(q *Question) bool {
	if _, ok := s.byIndex[q.QIndex]; ok {
		return false
	}
	s.byIndex[q.QIndex] = len(s.Questions)
	s.Questions = append(s.Questions, q)
	return true
}
