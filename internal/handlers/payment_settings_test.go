package handlers

import "testing"

func TestNormalizeAccountsSinglePrimary(t *testing.T) {
	accounts := normalizeAccounts([]PaymentAccountRequest{
		{BankName: "A Bank", AccountName: "a", AccountNumber: "1", IsPrimary: true},
		{BankName: "B Bank", AccountName: "b", AccountNumber: "2", IsPrimary: true},
	})
	if !accounts[0].IsPrimary {
		t.Fatal("first flagged account should win")
	}
	if accounts[1].IsPrimary {
		t.Fatal("only one account may be primary")
	}
}

func TestNormalizeAccountsDefaultsPrimary(t *testing.T) {
	accounts := normalizeAccounts([]PaymentAccountRequest{
		{BankName: "A Bank", AccountName: "a", AccountNumber: "1"},
		{BankName: "B Bank", AccountName: "b", AccountNumber: "2"},
	})
	if !accounts[0].IsPrimary {
		t.Fatal("first account should become primary when none is flagged")
	}
}

func TestNormalizeAccountsAssignsIDs(t *testing.T) {
	accounts := normalizeAccounts([]PaymentAccountRequest{
		{ID: "keep-me", BankName: "A Bank", AccountName: "a", AccountNumber: "1"},
		{BankName: "B Bank", AccountName: "b", AccountNumber: "2"},
	})
	if accounts[0].ID != "keep-me" {
		t.Fatalf("existing id must be preserved, got %q", accounts[0].ID)
	}
	if accounts[1].ID == "" {
		t.Fatal("new account must get a generated id")
	}
}

func TestSettingsFromAccountsMirrorsPrimary(t *testing.T) {
	accounts := normalizeAccounts([]PaymentAccountRequest{
		{BankName: "A Bank", AccountName: "a", AccountNumber: "1"},
		{BankName: "B Bank", AccountName: "b", AccountNumber: "2", IsPrimary: true},
	})
	settings := settingsFromAccounts(accounts)
	if settings.BankName != "B Bank" || settings.AccountNumber != "2" {
		t.Fatalf("top-level fields must mirror the primary account, got %+v", settings)
	}
}
