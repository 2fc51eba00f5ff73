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

package relay

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/solkit/solkit/logging"
)

// loggerMiddleware writes one access log line per request.
type loggerMiddleware struct {
	log logging.Logger
}

// makeLogger initializes the logger middleware function
func makeLogger(log logging.Logger) echo.MiddlewareFunc {
	logger := loggerMiddleware{log: log}
	return logger.handler
}

func (logger *loggerMiddleware) handler(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) (err error) {
		start := time.Now()
		res := ctx.Response()
		req := ctx.Request()

		// Propagate the error if the next middleware has a problem
		if err = next(ctx); err != nil {
			ctx.Error(err)
		}

		logger.log.Infof("%s \"%s %s %s\" %d %s \"%s\" %s",
			req.RemoteAddr,
			req.Method,
			req.RequestURI,
			req.Proto,
			res.Status,
			strconv.FormatInt(res.Size, 10),
			req.UserAgent(),
			time.Since(start),
		)
		return
	}
}
