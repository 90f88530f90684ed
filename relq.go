//    Copyright 2018 Horacio Duran <horacio@shiftleft.io>, ShiftLeft Inc.
//
//    Licensed under the Apache License, Version 2.0 (the "License");
//    you may not use this file except in compliance with the License.
//    You may obtain a copy of the License at
//
//        http://www.apache.org/licenses/LICENSE-2.0
//
//    Unless required by applicable law or agreed to in writing, software
//    distributed under the License is distributed on an "AS IS" BASIS,
//    WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
//    See the License for the specific language governing permissions and
//    limitations under the License.

// Package relq is the entry point of the query builder: it maps a driver
// name to the connection.DatabaseHandler that knows how to open it and
// the query.Dialect that renders SQL text for it.
package relq

import (
	"context"

	"github.com/pkg/errors"
	"github.com/relq-dev/relq/connection"
	"github.com/relq-dev/relq/driver/mysql"
	"github.com/relq-dev/relq/driver/postgres"
	"github.com/relq-dev/relq/driver/sqlite"
	"github.com/relq-dev/relq/query"
)

var handlers = map[string]connection.DatabaseHandler{
	"postgresql": &postgres.Connector{},
	"mysql":      &mysql.Connector{},
	"sqlite":     &sqlite.Connector{},
}

var dialects = map[string]query.Dialect{
	"postgresql": postgres.Dialect{},
	"mysql":      mysql.Dialect{},
	"sqlite":     sqlite.Dialect{},
}

// Open returns a DB connected to the passed db if possible.
func Open(ctx context.Context, driver string, connInfo *connection.Information) (connection.DB, error) {
	handler, ok := handlers[driver]
	if !ok {
		return nil, errors.Errorf("do not know how to handle %s", driver)
	}
	return handler.Open(ctx, connInfo)
}

// DialectFor returns the query.Dialect registered for driver, or the ANSI
// default dialect if none is registered under that name.
func DialectFor(driver string) query.Dialect {
	d, ok := dialects[driver]
	if !ok {
		return query.ANSI{}
	}
	return d
}
