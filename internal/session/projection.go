package session

import (
	"sort"

	"github.com/stemsi/exstem-assistant/internal/model"
)

// Projection returns a display-ready deep copy of every live session,
// ordered by client ID. Callers own the result; later store mutations never
// show through it.
func (s *Store) Projection() []*model.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*model.Session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		out = append(out, copySession(sess))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ClientID < out[j].ClientID })
	return out
}

// Session returns a deep copy of one session, or nil.
func (s *Store) Session(clientID string) *model.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, exists := s.sessions[clientID]
	if !exists {
		return nil
	}
	return copySession(sess)
}

func copySession(in *model.Session) *model.Session {
	out := model.NewSession(in.ClientID, in.UserInfo, in.Timer)
	out.Expanded = in.Expanded
	for _, q := range in.Questions {
		out.AddQuestion(copyQuestion(q))
	}
	return out
}

func copyQuestion(in *model.Question) *model.Question {
	out := &model.Question{
		QIndex:      in.QIndex,
		Question:    in.Question,
		QuestionImg: in.QuestionImg,
		Answers:     make([]model.AnswerOption, len(in.Answers)),
		AnswersList: make([]model.AnswerEntry, len(in.AnswersList)),
	}
	copy(out.Answers, in.Answers)
	copy(out.AnswersList, in.AnswersList)
	return out
}
