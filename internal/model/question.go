package model

// AnswerOption is one selectable option shown to the helper. Either Text or
// Img may be empty, but the server always sends the full fixed list.
type AnswerOption struct {
	Text string `json:"text,omitempty"`
	Img  string `json:"img,omitempty"`
}

// AnswerEntry records one responder's submitted answer as echoed back by the
// server. Entries are observational only and are never merged into the
// selectable options.
type AnswerEntry struct {
	Answer     string `json:"answer"`
	AnsweredBy string `json:"answered_by"`
}

// Question is one question within a session. Identity is (clientId, qIndex);
// qIndex alone is the de-duplication key inside a session.
type Question struct {
	QIndex      int    `json:"q_index"`
	Question    string `json:"question,omitempty"`
	QuestionImg string `json:"question_img,omitempty"`
	// Answers is immutable once the question is created.
	Answers []AnswerOption `json:"answers"`
	// AnswersList keeps one entry per responder, in first-appearance order.
	AnswersList []AnswerEntry `json:"answers_list"`
}

// RecordAnswer upserts an entry for answeredBy. A repeat submission by the
// same responder replaces the prior entry in place.
func (q *Question) RecordAnswer(answer, answeredBy string) {
	for i := range q.AnswersList {
		if q.AnswersList[i].AnsweredBy == answeredBy {
			q.AnswersList[i].Answer = answer
			return
		}
	}
	q.AnswersList = append(q.AnswersList, AnswerEntry{Answer: answer, AnsweredBy: answeredBy})
}
