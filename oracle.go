package gofugue

import "sync"

// OracleTables bundles the three read-only lookup tables (C1). It is
// process-wide, immutable after construction, and safe for concurrent use by
// any number of generators (§5, §9 "Global reference data").
type OracleTables struct {
	Melodic  *MelodicTable
	Duration *DurationTable
	Vertical *VerticalTable
}

var (
	defaultOracleTables     *OracleTables
	defaultOracleTablesOnce sync.Once
)

// DefaultOracleTables returns the process-wide compiled-in oracle tables,
// building them once on first use.
func DefaultOracleTables() *OracleTables {
	defaultOracleTablesOnce.Do(func() {
		defaultOracleTables = &OracleTables{
			Melodic:  NewMelodicTable(),
			Duration: NewDurationTable(),
			Vertical: NewVerticalTable(),
		}
		oracleDebug("compiled-in oracle tables initialized")
	})
	return defaultOracleTables
}
