package constant

// AsciiArtLogo is the banner shown in the root command help.
const AsciiArtLogo = `               _
 _ __ ___  ___| |_ __ ___   ___  _ __ ___
| '__/ _ \/ _ \ | '__/ _ \ / _ \| '_ ` + "`" + ` _ \
| | |  __/  __/ | | | (_) | (_) | | | | | |
|_|  \___|\___|_|_|  \___/ \___/|_| |_| |_|`
