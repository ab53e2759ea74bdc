package buildinfo

const Graffiti = " _  ______    _____              \n| |/ /  _ \\  |_   _| __ ___  ___ \n| ' /| | | |   | || '__/ _ \\/ _ \\\n| . \\| |_| |   | || | |  __/  __/\n|_|\\_\\____/    |_||_|  \\___|\\___|\n\n"

var (
	BuildTag string = "v0.0.0"
	Name     string = "KDTree"
	Time     string = ""
)

type buildinfo struct{}

func (buildinfo) Tag() string {
	return BuildTag
}

func (buildinfo) Name() string {
	return Name
}

func (buildinfo) Time() string {
	return Time
}

var Info buildinfo
