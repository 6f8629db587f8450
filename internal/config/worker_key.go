package config

type WorkerKeyStruct struct {
	AuditAnswersQueue string
}

var WorkerKey = &WorkerKeyStruct{
	AuditAnswersQueue: "audit_answers_queue",
}
