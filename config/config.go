package config

// Values bound to persistent cobra flags. They are filled before any
// command runs and read afterwards.
var (
	Network    string
	ConfigPath string
	Debug      bool

	Contract string
	Gateway  string

	Offset      int
	Limit       int
	Concurrency int
	Search      string
	JSONOutput  bool

	PinName    string
	ListenAddr string
	StorePath  string
	RedisAddr  string
)
