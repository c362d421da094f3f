// Package api provides the read-only status API of the reorg tracker
// @title ReorgTracker API
// @version 1.0
// @description REST API exposing the tracker state and the block hashes observed per height
// @contact.name API Support
// @contact.url https://github.com/goran-ethernal/ReorgTracker
// @license.name Apache 2.0
// @license.url https://www.apache.org/licenses/LICENSE-2.0.html
// @host localhost:8080
// @basePath /api/v1
// @schemes http https
package api
