/*
Package hance orchestrates streaming audio through fixed-latency
enhancement engines.

Concept

An enhancement engine is an opaque transform. It consumes audio in blocks
of a fixed size, delays its output by a fixed latency and produces several
output buses at once, for example "denoised" and "residual" or "vocals",
"bass" and "drums". This package wraps such an engine into a processor with
a simple contract:

    Process - accepts interleaved audio of any length;
    Finish  - drains the engine latency with silence;
    Close   - releases the engine.

The processor is built from three parts:

    Reassembler - re-chunks input into engine-sized blocks;
    Router      - selects or mixes engine buses with gain and activity;
    flush       - feeds silence until all delayed audio is recovered.

Output size

Process returns whatever the engine produced for the full blocks that
became available. Callers must not assume that the output of a single call
has the same number of frames as its input. Once Finish returns, the total
number of emitted frames is equal to the total number of submitted frames.

Ownership

A processor owns its engine exclusively and must be used from a single
goroutine. The only state safe to read from other goroutines is the frame
counters returned by Frames. Live capture and playback is provided by the
realtime package, file processing by the batch package.
*/
package hance
