/*
Package wallet provides read access to coin wallets and their ledgers.

The wallet service handles:
  - Wallet lookup with lazy creation on first access
  - Paged transaction history with type and time filters
  - Ledger audits that replay every entry against the stored aggregates

All balance mutations go through the earning and redemption services;
this package never writes to the ledger. It does own the read cache:
lookups are served from Redis when possible and fall back to the
database, and the writer services invalidate through the same Cache
interface after each commit.

Usage:

	svc := wallet.NewService(repo, cache, metrics)

	w, err := svc.GetWallet(ctx, userID)

	page, err := svc.ListTransactions(ctx, userID, wallet.ListOptions{Take: 20})

	report, err := svc.Audit(ctx, userID)
*/
package wallet
