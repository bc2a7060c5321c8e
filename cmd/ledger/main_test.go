package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Veraticus/spice-ledger/internal/advice"
	"github.com/Veraticus/spice-ledger/internal/common"
	"github.com/Veraticus/spice-ledger/internal/ledger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// run executes the CLI with isolated HOME and returns everything written to stdout/stderr.
func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func setupEnv(t *testing.T) string {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	for _, key := range []string{"LEDGER_USER", "LEDGER_STORAGE_BACKEND", "LEDGER_STORAGE_PATH"} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
	return filepath.Join(t.TempDir(), "finance_data.json")
}

func mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := run(t, "", args...)
	require.NoError(t, err, out)
	return out
}

func TestRegisterAddReport(t *testing.T) {
	data := setupEnv(t)

	out := mustRun(t, "--data", data, "register", "alice")
	assert.Contains(t, out, "Registered alice")

	out = mustRun(t, "--data", data, "-u", "alice", "add", "-a", "1000", "-c", "Salary")
	assert.Contains(t, out, "Added Salary: 1000.00 RUB")
	mustRun(t, "--data", data, "-u", "alice", "add", "-a", "200", "-c", "Groceries", "-d", "market")

	out = mustRun(t, "--data", data, "-u", "alice", "report")
	for _, want := range []string{"800.00 RUB", "Spending (month)", "market", advice.MsgNeedMoreData, advice.MsgFinancesFine} {
		assert.Contains(t, out, want)
	}
	assert.NotContains(t, out, advice.MsgOverspend)

	raw, err := os.ReadFile(data)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"alice"`)
	assert.Contains(t, string(raw), `"Groceries"`)
}

func TestRegister_Errors(t *testing.T) {
	data := setupEnv(t)
	mustRun(t, "--data", data, "register", "alice")

	_, err := run(t, "", "--data", data, "register", "alice")
	require.ErrorIs(t, err, ledger.ErrUserExists)

	_, err = run(t, "", "--data", data, "register")
	require.ErrorIs(t, err, ledger.ErrEmptyName)
}

func TestAdd_Errors(t *testing.T) {
	data := setupEnv(t)
	mustRun(t, "--data", data, "register", "alice")

	tests := []struct {
		name    string
		args    []string
		message string
		wantErr error
	}{
		{
			name:    "no user",
			args:    []string{"--data", data, "add", "-a", "5", "-c", "Groceries"},
			wantErr: common.ErrMissingConfig,
		},
		{
			name:    "unknown user",
			args:    []string{"--data", data, "-u", "bob", "add", "-a", "5", "-c", "Groceries"},
			wantErr: ledger.ErrUserNotFound,
		},
		{
			name:    "bad amount",
			args:    []string{"--data", data, "-u", "alice", "add", "-a", "five", "-c", "Groceries"},
			message: "Enter a valid amount",
		},
		{
			name:    "negative amount",
			args:    []string{"--data", data, "-u", "alice", "add", "-a", "-5", "-c", "Groceries"},
			message: "Amount must be positive",
		},
		{
			name:    "unknown category",
			args:    []string{"--data", data, "-u", "alice", "add", "-a", "5", "-c", "Yachts"},
			message: "Choose a category",
		},
		{
			name:    "bad date",
			args:    []string{"--data", data, "-u", "alice", "add", "-a", "5", "-c", "Groceries", "--date", "31.01.2024"},
			message: "Date must look like 2024-01-31",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, "", tt.args...)
			require.Error(t, err)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			}
			if tt.message != "" {
				assert.Equal(t, tt.message, common.UserMessage(err))
			}
		})
	}

	out := mustRun(t, "--data", data, "-u", "alice", "recent")
	assert.Contains(t, out, "No transactions yet")
}

func TestAdd_Interactive(t *testing.T) {
	data := setupEnv(t)
	mustRun(t, "--data", data, "register", "alice")

	out, err := run(t, "Groceries\n12,50\nbread\n", "--data", data, "-u", "alice", "add", "--date", "2024-02-01")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Added Groceries: 12.50 RUB")

	out = mustRun(t, "--data", data, "-u", "alice", "recent", "-n", "5")
	assert.Contains(t, out, "2024-02-01")
	assert.Contains(t, out, "-12.50 RUB")
	assert.Contains(t, out, "bread")
}

func TestUserFromEnvAndConfigFile(t *testing.T) {
	data := setupEnv(t)

	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	cfg := "storage:\n  path: " + data + "\nreport:\n  currency: EUR\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0o600))

	mustRun(t, "--config", cfgPath, "register", "carol")

	t.Setenv("LEDGER_USER", "carol")
	out := mustRun(t, "--config", cfgPath, "add", "-a", "3", "-c", "Transport")
	assert.Contains(t, out, "Added Transport: 3.00 EUR")
}

func TestSpendingAndCategories(t *testing.T) {
	data := setupEnv(t)
	mustRun(t, "--data", data, "register", "alice")
	mustRun(t, "--data", data, "-u", "alice", "add", "-a", "75", "-c", "Groceries")
	mustRun(t, "--data", data, "-u", "alice", "add", "-a", "25", "-c", "Transport")
	mustRun(t, "--data", data, "-u", "alice", "add", "-a", "10", "-c", "Transport", "--date", "2020-01-01")

	out := mustRun(t, "--data", data, "-u", "alice", "spending", "--window", "week")
	assert.Contains(t, out, "(75.0%)")
	assert.Contains(t, out, "Total: 100.00 RUB")

	out = mustRun(t, "--data", data, "-u", "alice", "spending")
	assert.Contains(t, out, "Total: 110.00 RUB")

	_, err := run(t, "", "--data", data, "-u", "alice", "spending", "--window", "decade")
	require.Error(t, err)

	out = mustRun(t, "categories")
	assert.Contains(t, out, "Salary")
	assert.Contains(t, out, "Clothing")
}

func TestMigrateStore(t *testing.T) {
	data := setupEnv(t)
	mustRun(t, "--data", data, "register", "alice")
	mustRun(t, "--data", data, "-u", "alice", "add", "-a", "1000", "-c", "Salary")
	mustRun(t, "--data", data, "register", "bob")

	db := filepath.Join(t.TempDir(), "ledger.db")
	out := mustRun(t, "--data", data, "migrate-store", "--to-backend", "sqlite", "--to-path", db)
	assert.Contains(t, out, "Copied 2 users")

	out = mustRun(t, "--storage", "sqlite", "--data", db, "-u", "alice", "recent")
	assert.Contains(t, out, "1000.00 RUB")

	_, err := run(t, "", "--data", data, "migrate-store", "--to-backend", "json", "--to-path", data)
	require.Error(t, err)
}

func TestMigrateStore_SkipsUnreadableUser(t *testing.T) {
	data := setupEnv(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(data), 0750))
	require.NoError(t, os.WriteFile(data, []byte(`{"alice": {"username": "alice", "transactions": []}, "bob": 42}`), 0600))

	db := filepath.Join(t.TempDir(), "ledger.db")
	out := mustRun(t, "--data", data, "migrate-store", "--to-backend", "sqlite", "--to-path", db)
	assert.Contains(t, out, "Copied 1 users")
	assert.Contains(t, out, "Skipped 1 unreadable users")
}

func TestInvalidBackend(t *testing.T) {
	setupEnv(t)
	_, err := run(t, "", "--storage", "postgres", "categories")
	require.ErrorIs(t, err, common.ErrInvalidConfig)
}

const statementOFX = `OFXHEADER:100
DATA:OFXSGML
VERSION:102
SECURITY:NONE
ENCODING:USASCII
CHARSET:1252
COMPRESSION:NONE
OLDFILEUID:NONE
NEWFILEUID:NONE

<OFX>
<SIGNONMSGSRSV1>
<SONRS>
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<DTSERVER>20240315120000[0:GMT]
<LANGUAGE>ENG
</SONRS>
</SIGNONMSGSRSV1>
<BANKMSGSRSV1>
<STMTTRNRS>
<TRNUID>1
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<STMTRS>
<CURDEF>RUB
<BANKACCTFROM>
<BANKID>044525225
<ACCTID>40817810000000000001
<ACCTTYPE>CHECKING
</BANKACCTFROM>
<BANKTRANLIST>
<DTSTART>20240101120000[0:GMT]
<DTEND>20240131120000[0:GMT]
<STMTTRN>
<TRNTYPE>CREDIT
<DTPOSTED>20240105120000[0:GMT]
<TRNAMT>500.00
<FITID>1
<NAME>INVOICE 42
</STMTTRN>
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20240110120000[0:GMT]
<TRNAMT>-120.00
<FITID>2
<NAME>BUS PASS
</STMTTRN>
</BANKTRANLIST>
<LEDGERBAL>
<BALAMT>380.00
<DTASOF>20240131120000[0:GMT]
</LEDGERBAL>
</STMTRS>
</STMTTRNRS>
</BANKMSGSRSV1>
</OFX>`

func TestImportOFX(t *testing.T) {
	data := setupEnv(t)
	mustRun(t, "--data", data, "register", "alice")

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "jan.ofx"), []byte(statementOFX), 0o600))
	pattern := filepath.Join(dir, "*.ofx")

	out := mustRun(t, "--data", data, "-u", "alice", "import-ofx", "--dry-run", pattern)
	assert.Contains(t, out, "Dry run: 2 transactions from 1 files")
	assert.Contains(t, mustRun(t, "--data", data, "-u", "alice", "recent"), "No transactions yet")

	out = mustRun(t, "--data", data, "-u", "alice", "import-ofx",
		"--income-category", "Freelance", "--expense-category", "Transport", pattern)
	assert.Contains(t, out, "Imported 2 transactions from 1 files")

	out = mustRun(t, "--data", data, "-u", "alice", "recent")
	assert.Contains(t, out, "Freelance")
	assert.Contains(t, out, "-120.00 RUB")
	assert.Contains(t, out, "INVOICE 42")

	_, err := run(t, "", "--data", data, "-u", "alice", "import-ofx", filepath.Join(dir, "missing-*.qfx"))
	require.Error(t, err)

	_, err = run(t, "", "--data", data, "-u", "alice", "import-ofx", "--income-category", "Housing", pattern)
	require.Error(t, err)
}

func TestVersion(t *testing.T) {
	setupEnv(t)
	out := mustRun(t, "version")
	assert.Contains(t, out, "ledger dev")
}
