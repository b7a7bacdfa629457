// SPDX-License-Identifier: EPL-2.0

// Package hostverify tracks verification of a remote playback host and
// retries the enabling notification with exponential backoff.
//
// A host moves through three states: not set, set with features
// disabled (unverified), and set with features enabled (verified).
// While unverified, the host is notified and a retry is scheduled 10
// minutes out; every timeout multiplies the delay by 1.5 and notifies
// again. The absolute deadline and the last-used delta are persisted
// through a PrefStore, so a restarted process resumes the schedule
// exactly, catching up any intervals missed while it was down.
//
//	store, _ := hostverify.OpenFileStore("/var/lib/app/hostverify.json")
//	v := hostverify.New(hostverify.HostNotSet, client, store,
//	    hostverify.SystemClock{}, hostverify.NewOneShotTimer())
//	v.AddObserver(func() { log.Print("host verified") })
//
//	// Feed host state changes from the control plane:
//	v.SetHostState(hostverify.HostSetFeaturesDisabled)
//
// Observers fire exactly once per unverified-to-verified transition.
// Clock and Timer are interfaces so tests drive time explicitly.
package hostverify
