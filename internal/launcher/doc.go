// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package launcher builds the command that runs the Chroma server and
// hands control to it.
//
// The server is started through a short bootstrap program passed to the
// interpreter with -c. It registers pysqlite3 under the module name
// sqlite3 before chromadb is imported, then runs the ASGI app with uvicorn
// on the resolved host and port.
package launcher
