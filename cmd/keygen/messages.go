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

package main

const (
	errorSearch        = "Search failed: %v"
	errorOpenKeystore  = "Cannot open keystore %s: %v"
	errorListKeystore  = "Cannot list keystore: %v"
	errorNoKeystore    = "--keystore is required"
	infoSearchStopped  = "Stopped after %d attempts in %s, %d match%s"
	infoKeystoreEmpty  = "Keystore %s holds no keys"
	infoKeystoreEntry  = "%s  %s  %s"
	warnMetricsStopped = "metrics endpoint stopped: %v"
)
