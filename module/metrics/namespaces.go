package metrics

const namespaceClient = "ledgerexec"

const (
	subsystemConnectionPool = "connection_pool"
	subsystemExecution      = "execution"
	subsystemReceipt        = "receipt"
)
