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

package vanity

import (
	"fmt"
	"strings"
	"time"
)

var frames = [...]string{"-", "\\", "|", "/"}

// FormatElapsed renders d as H:MM:SS.
func FormatElapsed(d time.Duration) string {
	secs := int64(d / time.Second)
	return fmt.Sprintf("%d:%02d:%02d", secs/3600, (secs%3600)/60, secs%60)
}

// RenderStatus draws the status block: a spinner frame chosen by whole
// elapsed seconds, the elapsed time, then one line per match.
func RenderStatus(elapsed time.Duration, results []Match) string {
	secs := int64(elapsed / time.Second)
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s %s\n", frames[secs%int64(len(frames))], FormatElapsed(elapsed))
	for _, m := range results {
		fmt.Fprintf(&sb, "[%s, %s]\n", m.Address, m.PrivateKey)
	}
	return sb.String()
}
