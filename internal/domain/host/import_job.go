package host

type ImportJob struct {
	ID          string
	SourcePath  string
	Status      string
	Attempts    int
	MaxAttempts int
}

type ImportProgress struct {
	ProcessedCount int64
	InsertedCount  int64
	SkippedCount   int64
	RejectedCount  int64
	UsersCreated   int64
	UsersSkipped   int64
}
