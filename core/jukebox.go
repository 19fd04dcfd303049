package core

import (
	"errors"

	"jukebox/fsm"
	"jukebox/protocol"
)

// Jukebox states.
const (
	JukeboxOff fsm.State = iota
	JukeboxStartUp
	JukeboxWaitCommand
	JukeboxSleepWhileOn
	JukeboxSleepWhileOff
)

// Wire responses.
const (
	respCommandNotFound = "Error: Command not found"
	respMelodyNotFound  = "Error: Melody not found"
	respPlaying         = "Playing: "
)

// JukeboxConfig holds the thresholds and the preloaded melodies.
type JukeboxConfig struct {
	OnOffThresholdMs    uint32
	NextSongThresholdMs uint32
	Melodies            []Melody
}

// Jukebox orchestrates a Button, a USART and a Buzzer. A long press toggles
// power, a medium press skips to the next melody and received lines are run
// as commands. While nothing is active the CPU is put into its low-power
// wait.
type Jukebox struct {
	m *fsm.Machine

	button *Button
	usart  *USART
	buzzer *Buzzer
	power  PowerDriver

	library       [MelodyLibrarySize]Melody
	index         int
	displayedName string

	onOffThreshold    uint32
	nextSongThreshold uint32

	commands *CommandRegistry
}

// NewJukebox creates a Jukebox in the Off state. The button, USART and
// buzzer are borrowed and must be fired by the caller before the Jukebox on
// every loop iteration.
func NewJukebox(cfg JukeboxConfig, button *Button, usart *USART, buzzer *Buzzer, power PowerDriver) (*Jukebox, error) {
	if button == nil || usart == nil || buzzer == nil || power == nil {
		return nil, ErrMissingDriver
	}
	if len(cfg.Melodies) > MelodyLibrarySize {
		return nil, ErrLibraryFull
	}
	if len(cfg.Melodies) == 0 || cfg.Melodies[0].Empty() {
		return nil, ErrNoIntroMelody
	}

	j := &Jukebox{
		button:            button,
		usart:             usart,
		buzzer:            buzzer,
		power:             power,
		onOffThreshold:    cfg.OnOffThresholdMs,
		nextSongThreshold: cfg.NextSongThresholdMs,
		commands:          NewCommandRegistry(),
	}
	copy(j.library[:], cfg.Melodies)
	j.registerCommands()

	m, err := fsm.New("jukebox", JukeboxOff, []fsm.Transition{
		{From: JukeboxOff, Guard: j.checkOnOff, To: JukeboxStartUp, Action: j.startUp},
		{From: JukeboxOff, Guard: j.checkNoActivity, To: JukeboxSleepWhileOff, Action: j.sleep},
		{From: JukeboxStartUp, Guard: j.checkMelodyFinished, To: JukeboxWaitCommand, Action: j.startJukebox},
		{From: JukeboxWaitCommand, Guard: j.checkOnOff, To: JukeboxOff, Action: j.stopJukebox},
		{From: JukeboxWaitCommand, Guard: j.checkNextSong, To: JukeboxWaitCommand, Action: j.nextSongButton},
		{From: JukeboxWaitCommand, Guard: j.usart.DataReceived, To: JukeboxWaitCommand, Action: j.readCommand},
		{From: JukeboxWaitCommand, Guard: j.checkNoActivity, To: JukeboxSleepWhileOn, Action: j.sleep},
		{From: JukeboxSleepWhileOn, Guard: j.checkNoActivity, To: JukeboxSleepWhileOn, Action: j.sleep},
		{From: JukeboxSleepWhileOn, Guard: j.checkActivity, To: JukeboxWaitCommand},
		{From: JukeboxSleepWhileOff, Guard: j.checkNoActivity, To: JukeboxSleepWhileOff, Action: j.sleep},
		{From: JukeboxSleepWhileOff, Guard: j.checkActivity, To: JukeboxOff},
	})
	if err != nil {
		return nil, err
	}
	j.m = m
	traceMachine(m)
	return j, nil
}

func (j *Jukebox) registerCommands() {
	j.commands.Register("play", "", j.cmdPlay)
	j.commands.Register("stop", "", j.cmdStop)
	j.commands.Register("pause", "", j.cmdPause)
	j.commands.Register("speed", "<factor>", j.cmdSpeed)
	j.commands.Register("next", "", j.cmdNext)
	j.commands.Register("select", "<index>", j.cmdSelect)
	j.commands.Register("info", "", j.cmdInfo)
}

// Guards

func (j *Jukebox) checkOnOff() bool {
	d := j.button.Duration()
	return d > 0 && d > j.onOffThreshold
}

func (j *Jukebox) checkNextSong() bool {
	d := j.button.Duration()
	return d > 0 && d > j.nextSongThreshold && d < j.onOffThreshold
}

func (j *Jukebox) checkMelodyFinished() bool {
	return j.buzzer.Action() == BuzzerStop
}

func (j *Jukebox) checkActivity() bool {
	return j.button.Active() || j.buzzer.Active() || j.usart.Active()
}

func (j *Jukebox) checkNoActivity() bool {
	return !j.checkActivity()
}

// Actions

func (j *Jukebox) startUp() {
	j.button.ResetDuration()
	j.usart.EnableRxInterrupt()
	DebugPrintln("Jukebox ON")
	j.buzzer.SetSpeed(1.0)
	j.buzzer.SetMelody(&j.library[0])
	j.buzzer.SetAction(BuzzerPlay)
}

func (j *Jukebox) startJukebox() {
	j.index = 0
	j.displayedName = j.library[0].DisplayName()
}

func (j *Jukebox) stopJukebox() {
	j.button.ResetDuration()
	j.usart.DisableRxInterrupt()
	j.usart.DisableTxInterrupt()
	DebugPrintln("Jukebox OFF")
	j.buzzer.SetAction(BuzzerStop)
}

func (j *Jukebox) nextSongButton() {
	j.setNextSong()
	j.button.ResetDuration()
}

func (j *Jukebox) readCommand() {
	cmd, err := protocol.ParseCommand(j.usart.InputData())
	switch {
	case err == nil:
		j.execute(cmd)
	case errors.Is(err, protocol.ErrEmptyLine):
	default:
		j.respond(respCommandNotFound)
	}
	j.usart.ResetInputData()
}

func (j *Jukebox) sleep() {
	j.power.EnterLowPowerWait()
}

func (j *Jukebox) execute(cmd protocol.Command) {
	err := j.commands.Dispatch(cmd.Name, cmd.Param)
	switch {
	case err == nil:
	case errors.Is(err, ErrMelodyNotFound):
		j.respond(respMelodyNotFound)
	default:
		j.respond(respCommandNotFound)
	}
}

func (j *Jukebox) respond(msg string) {
	j.usart.SetOutputData(protocol.FormatLine(msg))
}

func (j *Jukebox) setNextSong() {
	j.buzzer.SetAction(BuzzerStop)
	j.index = (j.index + 1) % MelodyLibrarySize
	if j.library[j.index].Empty() {
		j.index = 0
	}
	j.play(j.index)
}

func (j *Jukebox) play(index int) {
	j.index = index
	j.displayedName = j.library[index].DisplayName()
	DebugPrintln(respPlaying + j.displayedName)
	j.buzzer.SetMelody(&j.library[index])
	j.buzzer.SetAction(BuzzerPlay)
}

// Commands

func (j *Jukebox) cmdPlay(string) error {
	j.buzzer.SetAction(BuzzerPlay)
	return nil
}

func (j *Jukebox) cmdStop(string) error {
	j.buzzer.SetAction(BuzzerStop)
	return nil
}

func (j *Jukebox) cmdPause(string) error {
	j.buzzer.SetAction(BuzzerPause)
	return nil
}

func (j *Jukebox) cmdSpeed(param string) error {
	s := atof(param)
	if !(s > MinSpeed) {
		s = MinSpeed
	}
	j.buzzer.SetSpeed(s)
	DebugPrintln("speed " + ftoa(s))
	return nil
}

func (j *Jukebox) cmdNext(string) error {
	j.setNextSong()
	return nil
}

func (j *Jukebox) cmdSelect(param string) error {
	i := atoi(param)
	if i < 0 || i >= MelodyLibrarySize || j.library[i].Empty() {
		return ErrMelodyNotFound
	}
	j.buzzer.SetAction(BuzzerStop)
	j.play(i)
	return nil
}

func (j *Jukebox) cmdInfo(string) error {
	j.respond(respPlaying + j.displayedName)
	return nil
}

// Fire runs one step of the orchestrator machine.
func (j *Jukebox) Fire() bool { return j.m.Fire() }

// State returns the current orchestrator state.
func (j *Jukebox) State() fsm.State { return j.m.State() }

// Index returns the selected library slot.
func (j *Jukebox) Index() int { return j.index }

// DisplayedName returns the name reported by the info command.
func (j *Jukebox) DisplayedName() string { return j.displayedName }

// Melody returns the melody in slot i, or nil when i is out of range.
func (j *Jukebox) Melody(i int) *Melody {
	if i < 0 || i >= MelodyLibrarySize {
		return nil
	}
	return &j.library[i]
}

// Commands returns the command table.
func (j *Jukebox) Commands() *CommandRegistry { return j.commands }

// Active reports whether any orchestrated machine is busy.
func (j *Jukebox) Active() bool { return j.checkActivity() }
