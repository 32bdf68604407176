// Package slideshow implements the hero banner controller.
//
// A Controller owns an immutable list of featured movies and the index of the
// visible one. Three triggers move the index:
//
//   - a single-shot advance timer, long for trailer slides and short for
//     backdrop slides, rescheduled on every slide change
//   - a "playback ended" message from the visible slide's embedded player
//   - explicit Next, Previous and GoTo calls
//
// A manual call sets a one-shot override that makes the next timer tick (and
// any playback-ended message before it) leave the index alone.
//
// # Usage
//
//	ctrl := slideshow.New(tmdbClient,
//		slideshow.WithLogger(logger),
//		slideshow.WithMessenger(messenger),
//	)
//	go ctrl.Run(ctx)
//	<-ctrl.Loaded()
//
//	ctrl.Next()
//	ctrl.Deliver(slideshow.Message{
//		Origin:   slideshow.TrustedOrigin,
//		PlayerID: playerID,
//		Data:     `{"event":"video-state-change","info":0}`,
//	})
package slideshow
