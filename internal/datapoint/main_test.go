package datapoint_test

import (
	"testing"

	"go.uber.org/goleak"
)

// TestMain will run goleak after all tests have been run in the package
// to assert that no goroutines leaked (the batch upsert path fans out).
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}
