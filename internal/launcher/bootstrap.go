// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package launcher

// ExitBindingMissing is the bootstrap's exit status when pysqlite3 cannot
// be imported at server start (e.g. the interpreter changed after the probe).
const ExitBindingMissing = 3

// Bootstrap is the program passed to the interpreter. Positional
// arguments: host, port, log level.
const Bootstrap = `import sys
try:
    import pysqlite3
except ImportError:
    sys.stderr.write("pysqlite3 is not installed; run: python3 -m pip install --user pysqlite3-binary\n")
    sys.exit(3)
sys.modules["sqlite3"] = pysqlite3
from chromadb import app as chroma_app
import uvicorn
uvicorn.run(chroma_app.app, host=sys.argv[1], port=int(sys.argv[2]), log_level=sys.argv[3])
`
