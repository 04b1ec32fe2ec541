package config

// DefaultDatabasePath is the default path for the SQLite catalog database.
const DefaultDatabasePath = "./library.db"
