// Copyright 2025, Framewell, Inc.

package author

import (
	"fmt"
	"io/ioutil"

	"gopkg.in/yaml.v2"
)

// Load builds a job graph from a YAML job definition. Structural keys
// (subtasks, cmds, cleanup, postscript, init, dirmaps, instance, iterate,
// template, argv, local) shape the graph; every other key is set through
// the node's declared attributes, so a misspelled attribute fails with
// AttributeAccessError and a wrong value shape with TypeValidationError.
//
// A minimal definition:
//
//	job:
//	  title: two layer job
//	  priority: 10
//	  subtasks:
//	    - title: comp
//	      argv: comp fg.tif bg.tif final.tif
//	      subtasks:
//	        - title: render fg
//	          argv: prman fg.rib
func Load(data []byte) (*Job, error) {
	var doc struct {
		Job map[interface{}]interface{} `yaml:"job"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if doc.Job == nil {
		return nil, fmt.Errorf("job definition has no top-level job key")
	}
	j := NewJob("")
	if err := fillJob(j, doc.Job); err != nil {
		return nil, err
	}
	return j, nil
}

// LoadFile reads a YAML job definition file and builds the job graph.
func LoadFile(file string) (*Job, error) {
	data, err := ioutil.ReadFile(file)
	if err != nil {
		return nil, err
	}
	return Load(data)
}

func fillJob(j *Job, def map[interface{}]interface{}) error {
	for k, v := range def {
		key, ok := k.(string)
		if !ok {
			return fmt.Errorf("job definition: non-string key %v", k)
		}
		var err error
		switch key {
		case "subtasks":
			err = loadChildren(j.AddChild, v)
		case "cleanup":
			err = loadCommands(j.AddCleanup, v)
		case "postscript":
			err = loadCommands(j.AddPostscript, v)
		case "init":
			err = loadAssigns(j, v)
		case "dirmaps":
			err = loadDirMaps(j, v)
		default:
			err = j.SetField(key, v)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// loadChildren builds each node in a subtask (or template) list and hands
// it to attach.
func loadChildren(attach func(Child) (AttachResult, error), v interface{}) error {
	defs, ok := v.([]interface{})
	if !ok {
		return fmt.Errorf("job definition: subtasks is not a list")
	}
	for _, d := range defs {
		child, err := loadChild(d)
		if err != nil {
			return err
		}
		if _, err := attach(child); err != nil {
			return err
		}
	}
	return nil
}

func loadChild(v interface{}) (Child, error) {
	def, err := stringKeyed(v)
	if err != nil {
		return nil, err
	}
	if title, ok := def["instance"]; ok {
		s, ok := title.(string)
		if !ok || len(def) != 1 {
			return nil, fmt.Errorf("job definition: instance takes a single task title")
		}
		return NewInstance(s), nil
	}
	if iter, ok := def["iterate"]; ok {
		if len(def) != 1 {
			return nil, fmt.Errorf("job definition: iterate must be the only key of its node")
		}
		return loadIterate(iter)
	}
	return loadTask(def)
}

func loadTask(def map[string]interface{}) (*Task, error) {
	t := NewTask("")
	for key, v := range def {
		var err error
		switch key {
		case "argv":
			// shortcut: one remote command on the task
			cmd := NewCommand()
			if err = cmd.Argv.setAny(v); err == nil {
				t.AddCommand(cmd)
			}
		case "cmds":
			err = loadCommands(t.AddCommand, v)
		case "cleanup":
			err = loadCommands(t.AddCleanup, v)
		case "subtasks":
			err = loadChildren(t.AddChild, v)
		default:
			err = t.SetField(key, v)
		}
		if err != nil {
			return nil, err
		}
	}
	return t, nil
}

func loadIterate(v interface{}) (*Iterate, error) {
	def, err := stringKeyed(v)
	if err != nil {
		return nil, err
	}
	it := NewIterate("", 0, 0)
	for key, v := range def {
		var err error
		switch key {
		case "template":
			err = loadChildren(func(c Child) (AttachResult, error) {
				it.AddToTemplate(c)
				return Attached, nil
			}, v)
		case "subtasks":
			err = loadChildren(it.AddChild, v)
		default:
			err = it.SetField(key, v)
		}
		if err != nil {
			return nil, err
		}
	}
	return it, nil
}

func loadCommands(add func(*Command), v interface{}) error {
	defs, ok := v.([]interface{})
	if !ok {
		return fmt.Errorf("job definition: command list is not a list")
	}
	for _, d := range defs {
		def, err := stringKeyed(d)
		if err != nil {
			return err
		}
		cmd := NewCommand()
		if localv, ok := def["local"]; ok {
			b, ok := localv.(bool)
			if !ok {
				return TypeValidationError{Attr: "local", Value: localv}
			}
			if b {
				cmd = NewLocalCommand()
			}
			delete(def, "local")
		}
		for key, v := range def {
			if err := cmd.SetField(key, v); err != nil {
				return err
			}
		}
		add(cmd)
	}
	return nil
}

func loadAssigns(j *Job, v interface{}) error {
	defs, ok := v.([]interface{})
	if !ok {
		return fmt.Errorf("job definition: init is not a list")
	}
	for _, d := range defs {
		def, err := stringKeyed(d)
		if err != nil {
			return err
		}
		if len(def) != 1 {
			return fmt.Errorf("job definition: each init entry assigns one variable")
		}
		for name, value := range def {
			s, ok := value.(string)
			if !ok {
				return fmt.Errorf("job definition: init %s is not a string", name)
			}
			j.NewAssign(name, s)
		}
	}
	return nil
}

func loadDirMaps(j *Job, v interface{}) error {
	defs, ok := v.([]interface{})
	if !ok {
		return fmt.Errorf("job definition: dirmaps is not a list")
	}
	for _, d := range defs {
		def, err := stringKeyed(d)
		if err != nil {
			return err
		}
		src, _ := def["src"].(string)
		dst, _ := def["dst"].(string)
		zone, _ := def["zone"].(string)
		if src == "" || dst == "" || zone == "" {
			return fmt.Errorf("job definition: dirmap needs src, dst, and zone")
		}
		j.NewDirMap(src, dst, zone)
	}
	return nil
}

func stringKeyed(v interface{}) (map[string]interface{}, error) {
	raw, ok := v.(map[interface{}]interface{})
	if !ok {
		return nil, fmt.Errorf("job definition: node is not a mapping")
	}
	def := make(map[string]interface{}, len(raw))
	for k, value := range raw {
		key, ok := k.(string)
		if !ok {
			return nil, fmt.Errorf("job definition: non-string key %v", k)
		}
		def[key] = value
	}
	return def, nil
}
