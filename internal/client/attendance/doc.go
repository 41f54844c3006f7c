// Package attendance implements the QR check-in flow:
//
//	Scanning -> Submitting -> Result -> (ScanAgain) -> Scanning
//
// Every failure ends the attempt; retrying is an explicit ScanAgain.
package attendance
