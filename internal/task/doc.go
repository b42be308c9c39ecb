// Package task owns the recognition job lifecycle: the in-memory
// registry and its state machine, the per-job worker, and the retention
// sweeper that deletes expired terminal records.
//
// Job records are deliberately ephemeral. They live only for the
// process's lifetime and are swept once terminal and past retention; a
// process restart forgets all of them. One known gap follows from that
// design: if the process dies while a worker is mid-flight, nothing
// re-arms the job on restart — it is simply gone, and a job whose worker
// goroutine dies without transitioning it would sit in processing
// forever. There is no heartbeat mechanism.
package task
