package usecase

import "time"

const (
	// DefaultTransactionTimeout is the maximum duration for a database
	// transaction. This prevents long-running transactions from blocking
	// tables.
	DefaultTransactionTimeout = 10 * time.Second

	// BaseCurrency is the single currency the ledger currently operates
	// in. Multi-currency conversion is out of scope.
	BaseCurrency = "AOA"

	// DefaultSourceSystem tags operations whose caller did not identify
	// an origin system.
	DefaultSourceSystem = "LEDGER_SYSTEM"

	// verifyPageSize bounds how many posted transactions a full-ledger
	// verification loads per page.
	verifyPageSize = 500

	// accountPageSize bounds how many accounts a full-chart walk loads
	// per page.
	accountPageSize = 500
)
