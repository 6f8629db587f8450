package protocol

import "github.com/stemsi/exstem-assistant/internal/model"

// Wire shapes use the server's camelCase field names; the store and the
// projection API use the model types. These converters are the only place
// the two meet.

// ToModel converts a snapshot question into a store question, carrying over
// any answers already echoed by the server.
func (q QuestionSnapshot) ToModel() *model.Question {
	out := &model.Question{
		QIndex:      q.QIndex,
		Question:    q.Question,
		QuestionImg: q.QuestionImg,
		Answers:     convertOptions(q.Answers),
	}
	for _, echo := range q.AnswersList {
		out.RecordAnswer(echo.Answer, echo.AnsweredBy)
	}
	return out
}

// ToModel converts a live question push into a store question with an empty
// answers list.
func (q LiveQuestion) ToModel() *model.Question {
	return &model.Question{
		QIndex:      q.QIndex,
		Question:    q.Question,
		QuestionImg: q.QuestionImg,
		Answers:     convertOptions(q.Answers),
	}
}

func convertOptions(in []AnswerOption) []model.AnswerOption {
	out := make([]model.AnswerOption, len(in))
	for i, opt := range in {
		out[i] = model.AnswerOption{Text: opt.Text, Img: opt.Img}
	}
	return out
}
