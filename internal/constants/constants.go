package constants

const (
	// DateFormat is the calendar-date format used for due dates, transaction
	// dates, and habit completion dates (YYYY-MM-DD).
	DateFormat = "2006-01-02"

	// HeaderUserID carries the advisory user identity on every API request.
	HeaderUserID = "X-User-ID"

	// DefaultScope is the shared bucket used for requests without an identity
	// header when the server allows anonymous access. It is not a security
	// boundary.
	DefaultScope = "default"

	// AppName is the binary and keyring service name.
	AppName = "tracker"

	// DefaultKeyringUser is the keyring account under which the database
	// connection string is stored.
	DefaultKeyringUser = "db-connection"

	// StoragePrefix namespaces local fallback files and the device identity.
	StoragePrefix = "tracker"

	// FrequencyDaily is the sentinel habit frequency meaning every day of the
	// week.
	FrequencyDaily = "Daily"

	// DefaultPort is the port the API server listens on.
	DefaultPort = 3001
)

// Resource kind names as they appear in API paths and storage namespaces.
const (
	KindTasks   = "tasks"
	KindHabits  = "habits"
	KindFinance = "finance"
	KindPlanner = "planner"
)

// Kinds lists every resource kind the store manages.
var Kinds = []string{KindTasks, KindHabits, KindFinance, KindPlanner}
