package specialist

import (
	"github.com/wardenhq/warden/api"
	"github.com/wardenhq/warden/internal/registry"
)

var Global = registry.New[api.Specialist]()

func Add(sp api.Specialist) {
	Global.Add(sp.Name(), sp)
}

func Get(name string) (api.Specialist, bool) {
	return Global.Get(name)
}

func Del(name string) {
	Global.Del(name)
}
