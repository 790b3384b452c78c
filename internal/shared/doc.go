// Package shared holds code used across packages that belongs to no single
// layer. Its testutil subpackage provides a capturing slog handler and a
// fake Sheets API server for package tests:
//
//	logger, logs := testutil.NewTestLogger(t)
//	fake := testutil.NewFakeSheets(t, testutil.SheetRows())
//	svc, err := sheets.NewService(ctx, option.WithEndpoint(fake.Endpoint()), option.WithoutAuthentication())
package shared
