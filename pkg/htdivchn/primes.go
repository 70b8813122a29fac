package htdivchn

// growPrimes is the fixed, increasing-by-roughly-2x prime sequence the
// table advances through on grow, same shape as the classic STL/Java
// hash-table capacity tables. The last entry is the saturation point: once
// count_ix reaches it, further grows are no-ops and alpha is no longer
// bounded (spec's PrecisionSaturation, not surfaced as an error).
var growPrimes = [...]uint64{
	53, 97, 193, 389, 769, 1543, 3079, 6151, 12289, 24593,
	49157, 98317, 196613, 393241, 786433, 1572869, 3145739, 6291469,
	12582917, 25165843, 50331653, 100663319, 201326611, 402653189,
	805306457, 1610612741, 3221225473, 4294967291,
}

// primeAtLeast returns the index into growPrimes of the first prime >= n,
// or the last index if n exceeds every entry (saturation).
func primeAtLeast(n uint64) int {
	for i, p := range growPrimes {
		if p >= n {
			return i
		}
	}
	return len(growPrimes) - 1
}
