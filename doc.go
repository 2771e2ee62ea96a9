// Package portfolio provides the types and calculations for managing a
// personal portfolio of stock holdings. It is designed to be local-first and
// auditable: holdings and market data live in human-readable files the user
// fully controls.
//
// The core functionalities include:
//   - Holdings Management: Recording share-count mutations (add, remove, set,
//     by shares or by cash value) that apply from a date forward.
//   - Market Data: Storing per-symbol close-price histories and looking up
//     the last known price at or before any date.
//   - Valuation: Deriving the daily value of every position and the whole
//     portfolio, with day-over-day changes and year-to-date rankings.
//   - Reporting: Assembling the facts used by the text, HTML, and email
//     renditions of the daily report.
//   - Data Persistence: Encoding and decoding both series to and from a
//     human-readable JSONL format, and exporting to CSV or XLSX.
//
// This package serves as the foundational logic for the `pf` command-line
// tool, ensuring that all operations are consistent and based on a single
// source of truth.
package portfolio
