package model

// SubmitAnswerRequest is the payload for a helper submitting an answer.
// QIndex and VarIndex are pointers so a genuine zero passes the required
// validation.
type SubmitAnswerRequest struct {
	QIndex   *int   `json:"q_index" binding:"required"`
	Question string `json:"question"`
	Answer   string `json:"answer" binding:"required"`
	VarIndex *int   `json:"var_index" binding:"required"`
}
