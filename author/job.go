// Copyright 2025, Framewell, Inc.

package author

// Job is the root node of a job graph. It holds job-wide attributes, init
// assignments, dirmaps, cleanup and postscript command lists, and the tree
// of subtasks.
type Job struct {
	element
	jobConst       ConstAttr
	Title          StrAttr
	Tier           StrAttr
	SpoolCwd       StrAttr
	Projects       StrListAttr
	Crews          StrListAttr
	MaxActive      IntAttr
	Paused         BoolAttr
	After          DateAttr
	AfterJids      IntListAttr
	Init           GroupAttr
	AtLeast        IntAttr
	AtMost         IntAttr
	EtaLevel       IntAttr
	Tags           StrListAttr
	Priority       FloatAttr
	Service        StrAttr
	EnvKey         StrListAttr
	Comment        StrAttr
	Metadata       StrAttr
	EditPolicy     StrAttr
	Cleanup        GroupAttr
	Postscript     GroupAttr
	DirMaps        GroupAttr
	SerialSubtasks BoolAttr
	Subtasks       GroupAttr
}

// NewJob creates a Job with the given title. The title may be left empty
// and set later, but a Job cannot be rendered without one.
func NewJob(title string) *Job {
	j := &Job{
		jobConst:       ConstAttr{attrCore{key: "constant", noKey: true}, "Job"},
		Title:          StrAttr{attrCore: attrCore{key: "title", required: true}},
		Tier:           StrAttr{attrCore: attrCore{key: "tier"}},
		SpoolCwd:       StrAttr{attrCore: attrCore{key: "spoolcwd"}},
		Projects:       StrListAttr{attrCore: attrCore{key: "projects"}},
		Crews:          StrListAttr{attrCore: attrCore{key: "crews"}},
		MaxActive:      IntAttr{attrCore: attrCore{key: "maxactive"}},
		Paused:         BoolAttr{attrCore: attrCore{key: "paused"}},
		After:          DateAttr{attrCore: attrCore{key: "after"}},
		AfterJids:      IntListAttr{attrCore: attrCore{key: "afterjids"}},
		Init:           GroupAttr{attrCore: attrCore{key: "init"}},
		AtLeast:        IntAttr{attrCore: attrCore{key: "atleast"}},
		AtMost:         IntAttr{attrCore: attrCore{key: "atmost"}},
		EtaLevel:       IntAttr{attrCore: attrCore{key: "etalevel"}},
		Tags:           StrListAttr{attrCore: attrCore{key: "tags"}},
		Priority:       FloatAttr{attrCore: attrCore{key: "priority"}, precision: 1},
		Service:        StrAttr{attrCore: attrCore{key: "service"}},
		EnvKey:         StrListAttr{attrCore: attrCore{key: "envkey"}},
		Comment:        StrAttr{attrCore: attrCore{key: "comment"}},
		Metadata:       StrAttr{attrCore: attrCore{key: "metadata"}},
		EditPolicy:     StrAttr{attrCore: attrCore{key: "editpolicy"}},
		Cleanup:        GroupAttr{attrCore: attrCore{key: "cleanup"}},
		Postscript:     GroupAttr{attrCore: attrCore{key: "postscript"}},
		DirMaps:        GroupAttr{attrCore: attrCore{key: "dirmaps"}},
		SerialSubtasks: BoolAttr{attrCore: attrCore{key: "serialsubtasks"}},
		Subtasks:       GroupAttr{attrCore: attrCore{key: "subtasks", required: true}},
	}
	j.init("Job", []Attr{
		&j.jobConst, &j.Title, &j.Tier, &j.SpoolCwd, &j.Projects, &j.Crews,
		&j.MaxActive, &j.Paused, &j.After, &j.AfterJids, &j.Init, &j.AtLeast,
		&j.AtMost, &j.EtaLevel, &j.Tags, &j.Priority, &j.Service, &j.EnvKey,
		&j.Comment, &j.Metadata, &j.EditPolicy, &j.Cleanup, &j.Postscript,
		&j.DirMaps, &j.SerialSubtasks, &j.Subtasks,
	})
	if title != "" {
		j.Title.Set(title)
	}
	return j
}

// AddChild attaches a Task, Instance, or Iterate as a direct child of the
// job. A Task that already has a parent is not reparented: an Instance
// referring to it is attached instead, and the result reports Instanced.
func (j *Job) AddChild(c Child) (AttachResult, error) {
	return attachChild(j, &j.Subtasks, c)
}

// NewTask creates a Task, attaches it as a child of the job, and returns
// it. If argv is given, the task gets one remote command running it.
func (j *Job) NewTask(title string, argv ...string) *Task {
	t := NewTask(title, argv...)
	j.AddChild(t)
	return t
}

// AddCleanup appends a command to the job's cleanup list. Cleanup commands
// are never instanced.
func (j *Job) AddCleanup(cmd *Command) {
	j.Cleanup.add(cmd)
}

// NewCleanup creates a remote command from argv, appends it to the job's
// cleanup list, and returns it.
func (j *Job) NewCleanup(argv ...string) *Command {
	cmd := NewCommand(argv...)
	j.AddCleanup(cmd)
	return cmd
}

// AddPostscript appends a command to the job's postscript list. The
// command's When attribute governs whether the engine runs it on success,
// failure, or both.
func (j *Job) AddPostscript(cmd *Command) {
	j.Postscript.add(cmd)
}

// NewPostscript creates a remote command from argv, appends it to the
// job's postscript list, and returns it.
func (j *Job) NewPostscript(argv ...string) *Command {
	cmd := NewCommand(argv...)
	j.AddPostscript(cmd)
	return cmd
}

// NewAssign appends a variable assignment to the job's init list and
// returns it.
func (j *Job) NewAssign(varname, value string) *Assign {
	a := NewAssign(varname, value)
	j.Init.add(a)
	return a
}

// NewDirMap appends a path mapping to the job's dirmap list and returns it.
func (j *Job) NewDirMap(src, dst, zone string) *DirMap {
	d := NewDirMap(src, dst, zone)
	j.DirMaps.add(d)
	return d
}

func (j *Job) label() string {
	return "Job " + titleOr(j.Title.Value())
}

// --------------------------------------------------------------------------

// Task is one logical unit of work: a command list plus optional child
// tasks that must finish first.
type Task struct {
	element
	taskConst      ConstAttr
	Title          StrAttr
	Id             StrAttr
	Service        StrAttr
	AtLeast        IntAttr
	AtMost         IntAttr
	Cmds           GroupAttr
	Chaser         ArgvAttr
	Preview        ArgvAttr
	SerialSubtasks BoolAttr
	ResumeBlock    BoolAttr
	Cleanup        GroupAttr
	Metadata       StrAttr
	Subtasks       GroupAttr
}

// NewTask creates a standalone Task. If argv is given, the task gets one
// remote command running it. The task has no parent until attached with an
// AddChild or NewTask call on a parent node.
func NewTask(title string, argv ...string) *Task {
	t := &Task{
		taskConst:      ConstAttr{attrCore{key: "constant", noKey: true}, "Task"},
		Title:          StrAttr{attrCore: attrCore{key: "title", required: true, noKey: true}},
		Id:             StrAttr{attrCore: attrCore{key: "id"}},
		Service:        StrAttr{attrCore: attrCore{key: "service"}},
		AtLeast:        IntAttr{attrCore: attrCore{key: "atleast"}},
		AtMost:         IntAttr{attrCore: attrCore{key: "atmost"}},
		Cmds:           GroupAttr{attrCore: attrCore{key: "cmds"}},
		Chaser:         ArgvAttr{StrListAttr{attrCore: attrCore{key: "chaser"}}},
		Preview:        ArgvAttr{StrListAttr{attrCore: attrCore{key: "preview"}}},
		SerialSubtasks: BoolAttr{attrCore: attrCore{key: "serialsubtasks"}},
		ResumeBlock:    BoolAttr{attrCore: attrCore{key: "resumeblock"}},
		Cleanup:        GroupAttr{attrCore: attrCore{key: "cleanup"}},
		Metadata:       StrAttr{attrCore: attrCore{key: "metadata"}},
		Subtasks:       GroupAttr{attrCore: attrCore{key: "subtasks"}},
	}
	t.init("Task", []Attr{
		&t.taskConst, &t.Title, &t.Id, &t.Service, &t.AtLeast, &t.AtMost,
		&t.Cmds, &t.Chaser, &t.Preview, &t.SerialSubtasks, &t.ResumeBlock,
		&t.Cleanup, &t.Metadata, &t.Subtasks,
	})
	if title != "" {
		t.Title.Set(title)
	}
	if len(argv) > 0 {
		t.AddCommand(NewCommand(argv...))
	}
	return t
}

// AddChild attaches a Task, Instance, or Iterate as a child of this task.
// Children must finish before the task's own commands run. An
// already-parented Task is promoted to an Instance, see Job.AddChild.
func (t *Task) AddChild(c Child) (AttachResult, error) {
	return attachChild(t, &t.Subtasks, c)
}

// NewTask creates a Task, attaches it as a child of this task, and returns it.
func (t *Task) NewTask(title string, argv ...string) *Task {
	child := NewTask(title, argv...)
	t.AddChild(child)
	return child
}

// AddCommand appends a command to the task's command list.
func (t *Task) AddCommand(cmd *Command) {
	t.Cmds.add(cmd)
}

// NewCommand creates a remote command from argv, appends it to the task's
// command list, and returns it.
func (t *Task) NewCommand(argv ...string) *Command {
	cmd := NewCommand(argv...)
	t.AddCommand(cmd)
	return cmd
}

// AddCleanup appends a command to the task's cleanup list.
func (t *Task) AddCleanup(cmd *Command) {
	t.Cleanup.add(cmd)
}

// NewCleanup creates a remote command from argv, appends it to the task's
// cleanup list, and returns it.
func (t *Task) NewCleanup(argv ...string) *Command {
	cmd := NewCommand(argv...)
	t.AddCleanup(cmd)
	return cmd
}

func (t *Task) label() string {
	return "Task " + titleOr(t.Title.Value())
}

// --------------------------------------------------------------------------

// Instance is a non-owning reference to a Task defined elsewhere in the
// same graph, used when a task is a dependency of more than one parent.
// Instances are created automatically when an already-parented Task is
// attached again, or explicitly with NewInstance.
type Instance struct {
	element
	instConst ConstAttr
	Title     StrAttr
}

// NewInstance creates an Instance referring to the task with the given title.
func NewInstance(title string) *Instance {
	i := &Instance{
		instConst: ConstAttr{attrCore{key: "constant", noKey: true}, "Instance"},
		Title:     StrAttr{attrCore: attrCore{key: "title", required: true, noKey: true}},
	}
	i.init("Instance", []Attr{&i.instConst, &i.Title})
	if title != "" {
		i.Title.Set(title)
	}
	return i
}

func (i *Instance) label() string {
	return "Instance " + titleOr(i.Title.Value())
}

// --------------------------------------------------------------------------

// Iterate is a templated repetition construct. The engine expands the
// template once per loop index, substituting the loop variable into titles
// and argv strings at execution time; this package only records the loop.
// Ordinary subtasks attached with AddChild must finish before the loop
// starts. An Iterate can be attached to at most one parent; there is no
// instancing for loops.
type Iterate struct {
	element
	iterConst ConstAttr
	VarName   StrAttr
	From      IntAttr
	To        IntAttr
	By        IntAttr
	Template  GroupAttr
	Subtasks  GroupAttr
}

// NewIterate creates an Iterate looping varname over [from, to].
func NewIterate(varname string, from, to int) *Iterate {
	i := &Iterate{
		iterConst: ConstAttr{attrCore{key: "constant", noKey: true}, "Iterate"},
		VarName:   StrAttr{attrCore: attrCore{key: "varname", required: true, noKey: true}},
		From:      IntAttr{attrCore: attrCore{key: "from", required: true}},
		To:        IntAttr{attrCore: attrCore{key: "to", required: true}},
		By:        IntAttr{attrCore: attrCore{key: "by"}},
		Template:  GroupAttr{attrCore: attrCore{key: "template", required: true}},
		Subtasks:  GroupAttr{attrCore: attrCore{key: "subtasks"}},
	}
	i.init("Iterate", []Attr{
		&i.iterConst, &i.VarName, &i.From, &i.To, &i.By, &i.Template, &i.Subtasks,
	})
	i.alias("frm", &i.From)
	if varname != "" {
		i.VarName.Set(varname)
	}
	i.From.Set(from)
	i.To.Set(to)
	return i
}

// AddToTemplate appends a node to the loop template. Template members are
// not part of the ordinary subtask tree: no parent or instancing checks
// apply.
func (i *Iterate) AddToTemplate(c Child) {
	i.Template.add(c)
}

// AddChild attaches an ordinary child that must finish before the loop starts.
func (i *Iterate) AddChild(c Child) (AttachResult, error) {
	return attachChild(i, &i.Subtasks, c)
}

// NewTask creates a Task, attaches it as an ordinary child, and returns it.
func (i *Iterate) NewTask(title string, argv ...string) *Task {
	t := NewTask(title, argv...)
	i.AddChild(t)
	return t
}

func (i *Iterate) label() string {
	if !i.VarName.HasValue() {
		return "Iterate <no iterator>"
	}
	return "Iterate " + i.VarName.Value()
}

// --------------------------------------------------------------------------

// Command is one executable step belonging to a Task's command, cleanup, or
// postscript list. Remote commands (the default) run on a farm host picked
// by the engine; local commands run on the host the job was spooled from.
type Command struct {
	element
	cmdConst    ConstAttr
	Argv        ArgvAttr
	Msg         StrAttr
	Tags        StrListAttr
	Service     StrAttr
	Metrics     StrAttr
	Id          StrAttr
	RefersTo    StrAttr
	Expand      BoolAttr
	AtLeast     IntAttr
	AtMost      IntAttr
	MinRunSecs  IntAttr
	MaxRunSecs  IntAttr
	SameHost    BoolAttr
	EnvKey      StrListAttr
	RetryRC     IntListAttr
	When        WhenAttr
	ResumeWhile StrListAttr
	ResumePin   BoolAttr
	Metadata    StrAttr
}

// NewCommand creates a remote-executed command with the given argv.
func NewCommand(argv ...string) *Command {
	return newCommand("RemoteCmd", argv)
}

// NewLocalCommand creates a command executed locally on the spooling host.
func NewLocalCommand(argv ...string) *Command {
	return newCommand("Command", argv)
}

// NewCommandLine creates a remote-executed command by tokenizing a raw
// command line on whitespace.
func NewCommandLine(line string) *Command {
	return newCommand("RemoteCmd", Str2Argv(line))
}

func newCommand(kind string, argv []string) *Command {
	c := &Command{
		cmdConst:    ConstAttr{attrCore{key: "constant", noKey: true}, kind},
		Argv:        ArgvAttr{StrListAttr{attrCore: attrCore{key: "argv", required: true, noKey: true}}},
		Msg:         StrAttr{attrCore: attrCore{key: "msg"}},
		Tags:        StrListAttr{attrCore: attrCore{key: "tags"}},
		Service:     StrAttr{attrCore: attrCore{key: "service"}},
		Metrics:     StrAttr{attrCore: attrCore{key: "metrics"}},
		Id:          StrAttr{attrCore: attrCore{key: "id"}},
		RefersTo:    StrAttr{attrCore: attrCore{key: "refersto"}},
		Expand:      BoolAttr{attrCore: attrCore{key: "expand"}},
		AtLeast:     IntAttr{attrCore: attrCore{key: "atleast"}},
		AtMost:      IntAttr{attrCore: attrCore{key: "atmost"}},
		MinRunSecs:  IntAttr{attrCore: attrCore{key: "minrunsecs"}},
		MaxRunSecs:  IntAttr{attrCore: attrCore{key: "maxrunsecs"}},
		SameHost:    BoolAttr{attrCore: attrCore{key: "samehost"}},
		EnvKey:      StrListAttr{attrCore: attrCore{key: "envkey"}},
		RetryRC:     IntListAttr{attrCore: attrCore{key: "retryrc"}},
		When:        WhenAttr{StrAttr{attrCore: attrCore{key: "when"}}},
		ResumeWhile: StrListAttr{attrCore: attrCore{key: "resumewhile"}},
		ResumePin:   BoolAttr{attrCore: attrCore{key: "resumepin"}},
		Metadata:    StrAttr{attrCore: attrCore{key: "metadata"}},
	}
	c.init(kind, []Attr{
		&c.cmdConst, &c.Argv, &c.Msg, &c.Tags, &c.Service, &c.Metrics, &c.Id,
		&c.RefersTo, &c.Expand, &c.AtLeast, &c.AtMost, &c.MinRunSecs,
		&c.MaxRunSecs, &c.SameHost, &c.EnvKey, &c.RetryRC, &c.When,
		&c.ResumeWhile, &c.ResumePin, &c.Metadata,
	})
	if len(argv) > 0 {
		c.Argv.Set(argv)
	}
	return c
}

func (c *Command) label() string {
	return c.cmdConst.v
}

func titleOr(title string) string {
	if title == "" {
		return "<no title>"
	}
	return title
}
