// Package io provides JSON import and export for referral networks.
//
// # JSON Format
//
//	{
//	  "users": [
//	    {"id": "alice"},
//	    {"id": "bob", "referrer": "alice"},
//	    {"id": "carol", "referrer": "bob"}
//	  ]
//	}
//
// Each entry needs an "id". "referrer" is optional and must name a user that
// appears earlier in the array.
//
// # Import
//
// [ImportJSON] reads a file, [ReadJSON] any io.Reader. Both replay the users
// through the forest's public operations, so a file can never produce a
// network that the forest itself would reject.
//
// # Export
//
// [ExportJSON] and [WriteJSON] write users in pre-order per root. Exporting
// and re-importing preserves every (id, referrer) pair and the relative order
// of direct referrals.
package io
