/*
Package ports defines the driven ports (interfaces) of the turing engine.

These interfaces decouple programs from the place they are kept, allowing
the CLI, the HTTP API and the MCP server to work with various storage
backends.

# Key Interfaces

  - ProgramStore: persists compiled programs under a name.
*/
package ports
