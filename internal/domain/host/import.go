package host

// RawRow holds one parsed input row. All expected columns are present as
// plain strings; columns the file does not carry stay empty, columns outside
// this set are ignored by the parser.
type RawRow struct {
	ExternalID string `json:"id"`
	Name       string `json:"name"`
	Company    string `json:"company"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Location   string `json:"location"`
	Status     string `json:"status"`
}

// RejectedRow names the failing field(s) of a row so the operator can fix the
// input inline and resubmit. RowNumber is 1-based and counts the header line,
// so data row k is reported as row k+1.
type RejectedRow struct {
	RowNumber int    `json:"row_number"`
	Reason    string `json:"reason"`
	Data      RawRow `json:"data"`
}

// CreatedCredential carries a freshly provisioned login. The plaintext
// password exists only in the response of the import call that generated it.
type CreatedCredential struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Company  string `json:"company"`
}

// CreateOutcome reports what a single-row persistence attempt did.
type CreateOutcome struct {
	HostInserted   bool
	HostSkipped    bool
	AccountCreated bool
	AccountSkipped bool
}

type ImportSummary struct {
	TotalProcessed     int                 `json:"total_processed"`
	Inserted           int                 `json:"inserted"`
	Skipped            int                 `json:"skipped"`
	Rejected           int                 `json:"rejected"`
	RejectedRows       []RejectedRow       `json:"rejected_rows"`
	UsersCreated       int                 `json:"users_created"`
	UsersSkipped       int                 `json:"users_skipped"`
	CreatedCredentials []CreatedCredential `json:"created_credentials"`
}

// Merge folds the summary of a correction round into the cumulative summary.
// Counters accumulate, except the rejected set: a retried row either succeeds
// and leaves the set or fails again with its latest reason, so the delta's
// rejected rows replace the prior ones. Credentials append, never drop: they
// are one-time secrets.
func Merge(cumulative, delta ImportSummary) ImportSummary {
	merged := cumulative
	merged.Inserted += delta.Inserted
	merged.Skipped += delta.Skipped
	merged.UsersCreated += delta.UsersCreated
	merged.UsersSkipped += delta.UsersSkipped
	merged.Rejected = len(delta.RejectedRows)
	merged.RejectedRows = delta.RejectedRows
	merged.CreatedCredentials = append(merged.CreatedCredentials, delta.CreatedCredentials...)
	merged.TotalProcessed = merged.Inserted + merged.Skipped + merged.Rejected
	return merged
}
