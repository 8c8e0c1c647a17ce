// Package process provides subprocess execution and supervision primitives.
//
// The package offers three building blocks:
//
// Runner executes one command to completion, used for strictly ordered
// setup steps (npm install, npm run build):
//   - Inherits stdout/stderr so tool output reaches the terminal unchanged
//   - Reports nonzero exits as *ExitError carrying the step name and code
//
// Task wraps one long-running command:
//   - Launches asynchronously and registers its handle in a Registry
//     before waiting for exit, so a concurrent shutdown can never miss it
//   - Reports exactly one Outcome (success, *LaunchError or
//     *NonZeroExitError) on a shared channel
//
// Registry tracks live process handles across tasks:
//   - Register/Unregister/Snapshot safe for concurrent use
//   - SignalAll sends SIGINT (graceful) or SIGKILL (forceful) to a
//     snapshot of the registered handles
//   - Terminate escalates: graceful signal, bounded wait for the registry
//     to drain, then force kill for anything still alive
//
// Example:
//
//	reg := process.NewRegistry(logger)
//	results := make(chan process.Outcome, 2)
//	process.NewTask("frontend", cmd, reg, logger).Start(results)
//	out := <-results
//	reg.Terminate(5*time.Second, 5*time.Second)
package process
