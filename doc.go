// Project Structure Overview
/*
inventory-pos/
├── cmd/
│   ├── server/
│   │   └── main.go          HTTP API for the desktop app
│   └── migrate/
│       └── main.go          apply, roll back or inspect store migrations
├── internal/
│   ├── config/              environment config and store locators
│   ├── database/
│   │   ├── connection.go    open, migrate and seed the store
│   │   └── migrations/      versioned schema changes and the history table
│   ├── models/              category, product, sale
│   ├── services/            catalog, sales, inventory, backups, schema status
│   ├── handlers/            gin handlers
│   ├── middleware/          request logging, CORS, i18n, rate limiting
│   ├── metrics/             prometheus collectors
│   ├── logger/              logrus setup
│   ├── i18n/                embedded translations
│   ├── router/
│   └── utils/               pagination, validation, responses
└── go.mod
*/

// Package inventorypos is the local store and API behind the inventory and
// point of sale desktop app.
package inventorypos
