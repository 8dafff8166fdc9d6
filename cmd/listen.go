package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"time"

	"github.com/bep/debounce"
	"github.com/jsphweid/keycoach/constants"
	"github.com/jsphweid/keycoach/model"
	"github.com/jsphweid/keycoach/pitch"
	"github.com/spf13/cobra"
	"gitlab.com/gomidi/midi/v2"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv" // autoregisters driver
)

var (
	listenPort int
	listenOut  string
	listenBPM  int
)

func init() {
	listenCmd.Flags().IntVar(&listenPort, "port", 0, "MIDI input port number")
	listenCmd.Flags().StringVar(&listenOut, "out", "", "write the recording JSON here instead of stdout")
	listenCmd.Flags().IntVar(&listenBPM, "bpm", constants.DefaultBPM, "bpm to tag the recording with")
	rootCmd.AddCommand(listenCmd)
}

var listenCmd = &cobra.Command{
	Use:   "listen",
	Short: "Captures live MIDI input as a recording",
	Long:  `Captures live MIDI input as a recording. Stop with Ctrl-C.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return listen()
	},
}

// capture accumulates notes from the driver callback. The callback runs on
// the driver's goroutine, so everything goes through the mutex.
type capture struct {
	mu    sync.Mutex
	notes []model.RecordedNote
	open  map[uint8]int // key -> index into notes
}

func (c *capture) noteStart(key uint8, vel uint8, atMs int) {
	name := pitch.Name(key)
	class, octave, err := pitch.Split(name)
	if err != nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.open[key] = len(c.notes)
	c.notes = append(c.notes, model.RecordedNote{
		Note:     class,
		Octave:   octave,
		StartMs:  atMs,
		Velocity: float64(vel) / 127,
	})
}

func (c *capture) noteEnd(key uint8, atMs int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	i, ok := c.open[key]
	if !ok {
		return
	}
	delete(c.open, key)
	end := atMs
	c.notes[i].EndMs = &end
}

func (c *capture) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.notes)
}

func (c *capture) snapshot() []model.RecordedNote {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]model.RecordedNote, len(c.notes))
	copy(out, c.notes)
	return out
}

func listen() error {
	defer midi.CloseDriver()

	in, err := midi.InPort(listenPort)
	if err != nil {
		return fmt.Errorf("could not open MIDI input port %v: %w", listenPort, err)
	}

	session := &capture{open: make(map[uint8]int)}
	debounced := debounce.New(2 * time.Second)

	stop, err := midi.ListenTo(in, func(msg midi.Message, timestampms int32) {
		var ch, key, vel uint8
		switch {
		case msg.GetNoteStart(&ch, &key, &vel):
			session.noteStart(key, vel, int(timestampms))
		case msg.GetNoteEnd(&ch, &key):
			session.noteEnd(key, int(timestampms))
		default:
			return
		}
		debounced(func() {
			fmt.Fprintf(os.Stderr, "captured %v notes so far\n", session.count())
		})
	})
	if err != nil {
		return fmt.Errorf("could not listen on %v: %w", in, err)
	}

	fmt.Fprintf(os.Stderr, "listening on %v, Ctrl-C to finish\n", in)
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)
	<-interrupt
	stop()

	return dumpCapture(session.snapshot())
}

func dumpCapture(notes []model.RecordedNote) error {
	rec := model.Recording{
		Title: "Live capture " + time.Now().Format("2006-01-02 15:04"),
		BPM:   listenBPM,
		Notes: notes,
	}

	out := os.Stdout
	if listenOut != "" {
		f, err := os.Create(listenOut)
		if err != nil {
			return fmt.Errorf("could not create %v: %w", listenOut, err)
		}
		defer f.Close()
		out = f
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(rec)
}
