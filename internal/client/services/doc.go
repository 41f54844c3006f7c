// Package services implements the gymdesk screens' logic on top of the API
// gateway and the session store: input checks, call sequencing, and the
// joined fetches dashboards need. Rendering is left to the CLI.
package services
