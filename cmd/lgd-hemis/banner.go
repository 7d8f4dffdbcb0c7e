package main

const version = "1.0.0"

const displayTitle = `
       _        _           _        _                    _     
      | |      | |         | |      | |                  (_)    
 _ __ | |______| | __ _  __| |______| |__   ___ _ __ ___  _ ___ 
| '_ \| |______| |/ _` + "`" + ` |/ _` + "`" + ` |______| '_ \ / _ \ '_ ` + "`" + ` _ \| / __|
| |_) | |      | | (_| | (_| |      | | | |  __/ | | | | | \__ \
| .__/|_|      |_|\__, |\__,_|      |_| |_|\___|_| |_| |_|_|___/
| |                __/ |                                        
|_|               |___/                                         
`
