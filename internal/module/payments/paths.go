package payments

import "path"

// Store layout:
//
//	customers/{accountId}                      customer record
//	customers/{accountId}/charges/{chargeId}   charge request / result
//	customers/{accountId}/sources/{sourceId}   source record
//
// Cleanup deletes the customers/{accountId} subtree as a whole.

// CustomerPath returns the store path of an account's customer record.
func CustomerPath(accountID string) string {
	return path.Join("customers", accountID)
}

// ChargePath returns the store path of a charge request.
func ChargePath(accountID, chargeID string) string {
	return path.Join("customers", accountID, "charges", chargeID)
}

// SourcePath returns the store path of a source record, the parent of the
// token field clients write to.
func SourcePath(accountID, sourceID string) string {
	return path.Join("customers", accountID, "sources", sourceID)
}
