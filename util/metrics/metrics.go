// Copyright (C) 2024-2025 solkit contributors
// This file is part of solkit
//
// solkit is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// solkit is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with solkit.  If not, see <https://www.gnu.org/licenses/>.

package metrics

// MetricName describes the name and description of a single metric.
type MetricName struct {
	Name        string
	Description string
}

var (
	// VanityKeysGenerated Total number of keypairs generated by vanity searches
	VanityKeysGenerated = MetricName{Name: "keys_generated_total", Description: "Total number of keypairs generated by vanity searches"}
	// VanityMatches Total number of generated keypairs whose address matched a pattern
	VanityMatches = MetricName{Name: "matches_total", Description: "Total number of generated keypairs whose address matched a pattern"}
	// RelayPartialsStored Total number of partially signed drafts accepted by the relay
	RelayPartialsStored = MetricName{Name: "relay_partials_stored_total", Description: "Total number of partially signed drafts accepted by the relay"}
	// RelayPartialsExpired Total number of drafts the relay dropped after their TTL
	RelayPartialsExpired = MetricName{Name: "relay_partials_expired_total", Description: "Total number of drafts the relay dropped after their TTL"}
)
