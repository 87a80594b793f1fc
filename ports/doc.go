/*
Package ports defines the driven ports of the pairing engine.

The engine itself performs no I/O. Everything it consumes or produces
crosses one of these interfaces, so the participant source, the history
storage and the delivery channel can be swapped without touching the core.

# Key Interfaces

  - Loader: supplies the participant pool for one cycle (sheet export, file).
  - HistoryStore: reads and appends pairing history (file, Redis).
  - Emitter: hands a finished Envelope to the delivery layer (JSON writer).
*/
package ports
