package runtime

// Rent parameters of the reference cluster.
const (
	// AccountStorageOverhead is charged on top of an account's data length.
	AccountStorageOverhead = 128
	// LamportsPerByteYear is the rent rate.
	LamportsPerByteYear = 3480
	// ExemptionThresholdYears is how many years of rent make an account exempt.
	ExemptionThresholdYears = 2
)

// MinimumBalance is the lamport balance that makes an account of dataLen
// bytes rent-exempt. A tweet account (1376 bytes) needs 10,467,840.
func MinimumBalance(dataLen int) uint64 {
	return uint64(AccountStorageOverhead+dataLen) * LamportsPerByteYear * ExemptionThresholdYears
}
