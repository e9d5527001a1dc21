/*
Package notify delivers events produced by committed transactions to the
outside world.

Events are not part of the consensus state. The application buffers them
while a block is delivered and hands the whole batch to a Publisher once
the block is committed. A failing publisher is logged and counted but it
never affects the state machine, so every Publisher must be safe to call
again with the next block after an error.
*/
package notify
