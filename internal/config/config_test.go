package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	t.Setenv("MOMOLEDGER_OWNER_ACCOUNT_NUMBER", "36521838")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected load ok, got err: %v", err)
	}
	if cfg.Database.Path != "momoledger.db" {
		t.Fatalf("wrong database path: %q", cfg.Database.Path)
	}
	if cfg.Import.ChannelAddress != "M-Money" {
		t.Fatalf("wrong channel address: %q", cfg.Import.ChannelAddress)
	}
	if cfg.Owner.AccountNumber != "36521838" {
		t.Fatalf("wrong account number: %q", cfg.Owner.AccountNumber)
	}
	if cfg.Owner.Name != "Account Owner" {
		t.Fatalf("wrong owner name: %q", cfg.Owner.Name)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("MOMOLEDGER_OWNER_ACCOUNT_NUMBER", "12345678")
	t.Setenv("MOMOLEDGER_DATABASE_PATH", "/tmp/ledger.db")
	t.Setenv("MOMOLEDGER_IMPORT_CHANNEL_ADDRESS", "MoMo")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected load ok, got err: %v", err)
	}
	if cfg.Database.Path != "/tmp/ledger.db" {
		t.Fatalf("wrong database path: %q", cfg.Database.Path)
	}
	if cfg.Import.ChannelAddress != "MoMo" {
		t.Fatalf("wrong channel address: %q", cfg.Import.ChannelAddress)
	}
	if cfg.Owner.AccountNumber != "12345678" {
		t.Fatalf("wrong account number: %q", cfg.Owner.AccountNumber)
	}
}

func TestLoadRequiresOwnerAccount(t *testing.T) {
	t.Setenv("MOMOLEDGER_OWNER_ACCOUNT_NUMBER", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error without owner account number")
	}
}
